package aiclient

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
)

// TextReply scripts one GenerateText outcome.
type TextReply struct {
	Text string
	Err  error
}

// ImageReply scripts one GenerateImage outcome.
type ImageReply struct {
	Image *Image
	Err   error
}

// FakeClient returns scripted replies in FIFO order for offline use and
// tests. When a queue is empty it falls back to a fixed default.
type FakeClient struct {
	mu          sync.Mutex
	textQueue   []TextReply
	imageQueue  []ImageReply
	DefaultText string
	DefaultImg  *Image

	TextCalls  []string // prompts seen by GenerateText
	ImageCalls []string // prompts seen by GenerateImage
	ImageRefs  [][]Image
}

func NewFakeClient() *FakeClient {
	// The default text satisfies every tagged-segment parser in the module
	// so offline runs complete end to end.
	return &FakeClient{
		DefaultText: "<prompt_1>a simple illustration</prompt_1>" +
			"<prompt_2>an alternative illustration</prompt_2>" +
			"<filename>illustration</filename>" +
			"<alt_text>generated illustration</alt_text>",
		DefaultImg: &Image{Data: TinyPNG(), MIMEType: "image/png"},
	}
}

// TinyPNG returns a small but well-formed PNG payload that passes envelope
// validation. Handy default for offline runs and tests.
func TinyPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func (f *FakeClient) Name() string { return "FakeAI" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) QueueText(replies ...TextReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.textQueue = append(f.textQueue, replies...)
}

func (f *FakeClient) QueueImage(replies ...ImageReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageQueue = append(f.imageQueue, replies...)
}

func (f *FakeClient) GenerateText(ctx context.Context, prompt string, images ...Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TextCalls = append(f.TextCalls, prompt)
	if len(f.textQueue) > 0 {
		r := f.textQueue[0]
		f.textQueue = f.textQueue[1:]
		return r.Text, r.Err
	}
	return f.DefaultText, nil
}

func (f *FakeClient) GenerateImage(ctx context.Context, prompt string, images []Image) (*Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ImageCalls = append(f.ImageCalls, prompt)
	f.ImageRefs = append(f.ImageRefs, images)
	if len(f.imageQueue) > 0 {
		r := f.imageQueue[0]
		f.imageQueue = f.imageQueue[1:]
		return r.Image, r.Err
	}
	return f.DefaultImg, nil
}
