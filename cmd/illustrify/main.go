package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"illustrify/internal/ai"
	"illustrify/internal/aiclient"
	"illustrify/internal/bundle"
	"illustrify/internal/config"
	"illustrify/internal/export"
	"illustrify/internal/imagesynth"
	"illustrify/internal/placeholder"
	"illustrify/internal/promptsynth"
	"illustrify/internal/safeio"
	"illustrify/internal/session"
	"illustrify/internal/utils"
)

func main() {
	docPath := flag.String("doc", "", "path to the source document")
	assetsDir := flag.String("assets", "", "optional directory of resolved assets")
	stylePath := flag.String("style", "", "optional style reference image")
	bundleID := flag.String("bundle", "illustrated", "bundle id for the export")
	outDir := flag.String("out", "out", "local directory mirroring the primary bundle")
	exportAll := flag.Bool("export-all", false, "also bundle every generated version")
	fake := flag.Bool("fake", false, "use the offline fake client")
	flag.Parse()
	if *docPath == "" {
		log.Fatal("--doc is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	root, err := safeio.NewSafeFS(filepath.Dir(*docPath))
	if err != nil {
		log.Fatal(err)
	}
	raw, err := root.SafeReadFile(filepath.Base(*docPath))
	if err != nil {
		log.Fatal(err)
	}
	doc := string(raw)

	assets := placeholder.NewAssetIndex()
	if *assetsDir != "" {
		afs, err := safeio.NewSafeFS(*assetsDir)
		if err != nil {
			log.Fatal(err)
		}
		err = afs.WalkFiles(".", func(rel string, content []byte) error {
			assets.Add(rel, content)
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("indexed %d assets from %s", assets.Len(), *assetsDir)
	}

	ctx := context.Background()
	cli, err := buildClient(ctx, cfg, *fake)
	if err != nil {
		log.Fatal(err)
	}
	defer cli.Close()

	templates, err := promptsynth.LoadTemplates(cfg.TemplatePath)
	if err != nil {
		log.Fatal(err)
	}
	prompts := promptsynth.NewSynthesizer(cli, templates)
	images := imagesynth.NewSynthesizer(cli, prompts)

	opts := session.Options{MaintainStyle: cfg.MaintainStyle}
	if *stylePath != "" {
		styleRaw, err := os.ReadFile(*stylePath)
		if err != nil {
			log.Fatal(err)
		}
		opts.StyleRef = &aiclient.Image{Data: styleRaw, MIMEType: utils.MIMEFromPath(*stylePath)}
	}

	phs := placeholder.Extract(doc, assets)
	log.Printf("extracted %d placeholders from %s", len(phs), *docPath)
	sess := session.New(doc, phs, prompts, images, opts)

	if err := sess.GenerateAll(ctx); err != nil {
		log.Fatal(err)
	}

	// Non-interactive front door: pick the first slot with an image.
	for i, e := range sess.Entries() {
		chosen := false
		for slot := 0; slot < session.SlotCount; slot++ {
			if e.Slots[slot].History != nil {
				if err := sess.Select(i, slot); err == nil {
					chosen = true
					break
				}
			}
		}
		if !chosen {
			log.Fatalf("placeholder at line %d has no usable candidate (state=%s, err=%v)",
				e.Placeholder.LineNumber, e.State, firstErr(e))
		}
	}

	store := buildStore(cfg)
	captioner := export.NewCaptioner(cli, templates)
	exporter := export.NewExporter(store, captioner)

	rebuilt, err := exporter.ExportPrimary(ctx, sess, *bundleID)
	if err != nil {
		log.Fatal(err)
	}
	if *exportAll {
		if err := exporter.ExportAllVersions(ctx, sess, *bundleID); err != nil {
			log.Fatal(err)
		}
	}

	if err := mirrorBundle(ctx, store, *bundleID, *outDir); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("rebuilt document: %d bytes, bundle %q mirrored to %s\n", len(rebuilt), *bundleID, *outDir)
}

func buildClient(ctx context.Context, cfg *config.Config, fake bool) (aiclient.Client, error) {
	var inner aiclient.Client
	if fake {
		inner = aiclient.NewFakeClient()
	} else {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		cli, err := aiclient.NewGeminiClient(ctx, cfg.APIKey, cfg.TextModel, cfg.ImageModel)
		if err != nil {
			return nil, err
		}
		inner = cli
	}
	return ai.Wrap(inner,
		ai.WithLogging(nil),
		ai.Retry(cfg.MaxAttempts, cfg.BaseDelay, cfg.Jitter),
		ai.RateLimit(cfg.RPS, cfg.Burst),
	), nil
}

func buildStore(cfg *config.Config) bundle.Store {
	if cfg.Bundle.Enabled {
		store, err := bundle.NewS3Store(bundle.S3Config{
			Endpoint:  cfg.Bundle.Endpoint,
			Region:    cfg.Bundle.Region,
			AccessKey: cfg.Bundle.AccessKey,
			SecretKey: cfg.Bundle.SecretKey,
			Bucket:    cfg.Bundle.Bucket,
			UseSSL:    cfg.Bundle.UseSSL,
		})
		if err == nil {
			return store
		}
		log.Printf("bundle store unavailable (%v); falling back to memory", err)
	}
	return bundle.NewMemoryStore()
}

func mirrorBundle(ctx context.Context, store bundle.Store, bundleID, outDir string) error {
	entries, err := store.List(ctx, bundleID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		content, err := store.Get(ctx, bundleID, entry)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, filepath.FromSlash(entry))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, content, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func firstErr(e *session.Entry) error {
	if e.Err != nil {
		return e.Err
	}
	for _, sl := range e.Slots {
		if sl.Err != nil {
			return sl.Err
		}
	}
	return nil
}
