package placeholder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractBasicPair(t *testing.T) {
	doc := "![](a.png)\n\n![Cat](b.png)"
	phs := Extract(doc, nil)
	require.Len(t, phs, 2)

	require.Equal(t, 1, phs[0].LineNumber)
	require.Equal(t, "", phs[0].AltText)
	require.Equal(t, "a.png", phs[0].RawPath)
	require.False(t, phs[0].HasSourceImage)

	require.Equal(t, 3, phs[1].LineNumber)
	require.Equal(t, "Cat", phs[1].AltText)
	require.Equal(t, "b.png", phs[1].RawPath)
	require.False(t, phs[1].HasSourceImage)
}

func TestExtractSpansReproduceMarkup(t *testing.T) {
	doc := "intro\n![One](x.png)\nmiddle <img src=\"y.png\" alt=\"Two\"> end\n![Three](<z file.png> \"a title\")\n"
	phs := Extract(doc, nil)
	require.Len(t, phs, 3)
	for _, ph := range phs {
		require.Equal(t, len(originalOf(doc, ph)), ph.Length)
	}
	require.Equal(t, "![One](x.png)", originalOf(doc, phs[0]))
	require.Equal(t, `<img src="y.png" alt="Two">`, originalOf(doc, phs[1]))
	require.Equal(t, "![Three](<z file.png> \"a title\")", originalOf(doc, phs[2]))
	require.Equal(t, "z file.png", phs[2].RawPath)
}

func TestExtractIdempotent(t *testing.T) {
	doc := "![A](a.png) text <img src=b.png> ![B](c.png \"t\")"
	first := Extract(doc, nil)
	second := Extract(doc, nil)
	require.Equal(t, first, second)
}

func TestExtractSortedByLine(t *testing.T) {
	doc := "<img src=\"late.png\">\n\n![Early](early.png)\n<img alt=\"nosrc\">\n![Last](last.png)"
	phs := Extract(doc, nil)
	require.Len(t, phs, 3) // tag without src is discarded
	for i := 1; i < len(phs); i++ {
		require.LessOrEqual(t, phs[i-1].LineNumber, phs[i].LineNumber)
	}
}

func TestExtractEscapes(t *testing.T) {
	doc := `![a \[bracket\] alt](pa\ th.png)`
	phs := Extract(doc, nil)
	require.Len(t, phs, 1)
	require.Equal(t, `a [bracket] alt`, phs[0].AltText)
	require.Equal(t, "pa th.png", phs[0].RawPath)
	require.Equal(t, doc, originalOf(doc, phs[0]))
}

func TestExtractTitleSplit(t *testing.T) {
	doc := `![Fig](images/fig.png "The figure")`
	phs := Extract(doc, nil)
	require.Len(t, phs, 1)
	require.Equal(t, "images/fig.png", phs[0].RawPath)
}

func TestExtractTagAttributes(t *testing.T) {
	doc := `<img class="wide" alt='A chart' width=300 src=charts/q1.png>`
	phs := Extract(doc, nil)
	require.Len(t, phs, 1)
	require.Equal(t, SyntaxTag, phs[0].Syntax)
	require.Equal(t, "A chart", phs[0].AltText)
	require.Equal(t, "charts/q1.png", phs[0].RawPath)
}

func TestExtractContextWindowClipped(t *testing.T) {
	doc := "![A](a.png)"
	phs := Extract(doc, nil)
	require.Len(t, phs, 1)
	require.Equal(t, doc, phs[0].Context)

	long := make([]byte, 0, 2100)
	for i := 0; i < 2000; i++ {
		long = append(long, 'x')
	}
	doc2 := string(long) + "![B](b.png)" + string(long)
	phs2 := Extract(doc2, nil)
	require.Len(t, phs2, 1)
	require.Equal(t, 500+len("![B](b.png)")+500, len(phs2[0].Context))
}

func TestAssetIndexSuffixMatch(t *testing.T) {
	ix := NewAssetIndex()
	ix.Add("assets/img/x.png", []byte{1, 2, 3})

	doc := "![X](./img/x.png)\n![Y](img/other.png)"
	phs := Extract(doc, ix)
	require.Len(t, phs, 2)
	require.True(t, phs[0].HasSourceImage)
	require.Equal(t, []byte{1, 2, 3}, phs[0].SourceImage)
	// Broken reference is indistinguishable from a blank one.
	require.False(t, phs[1].HasSourceImage)
	require.Nil(t, phs[1].SourceImage)
}

func TestExtractIgnoresUnterminated(t *testing.T) {
	doc := "![dangling](no-close and then ![Ok](ok.png)"
	phs := Extract(doc, nil)
	require.Len(t, phs, 1)
	require.Equal(t, "Ok", phs[0].AltText)
}

func originalOf(doc string, ph Placeholder) string {
	return doc[ph.Start : ph.Start+ph.Length]
}
