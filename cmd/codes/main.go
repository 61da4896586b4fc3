// Command codes prepares customer codes for printing.
//
//	codes seed [-n 100]     issue codes until n exist
//	codes first             print one issued code, for manual testing
//	codes qr [-out DIR]     write a QR sticker per code
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joao-fontenele/aurana-storefront/internal/codes"
	"github.com/joao-fontenele/aurana-storefront/internal/config"
	"github.com/joao-fontenele/aurana-storefront/internal/logging"
	"github.com/joao-fontenele/aurana-storefront/internal/qrcard"
	"github.com/joao-fontenele/aurana-storefront/internal/store"
	"github.com/joao-fontenele/aurana-storefront/internal/store/backend"
)

const usage = "usage: codes <seed [-n N]|first|qr [-out DIR] [-size PX]>"

type codeStore interface {
	codes.Checker
	IssueCode(ctx context.Context, code string) error
	ListCodes(ctx context.Context) ([]string, error)
}

func main() {
	storeBackend := flag.String("store", "", "override STORE_BACKEND")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := overrideBackend(cfg, *storeBackend); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, sync := logging.New("codes", cfg.Level(), cfg.LogFormat)
	defer sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, flag.Args(), os.Stdout); err != nil {
		logger.Error("codes failed", "error", err)
		sync()
		os.Exit(1)
	}
}

// overrideBackend applies the -store flag and revalidates the config.
func overrideBackend(cfg *config.Config, name string) error {
	if name == "" {
		return nil
	}
	cfg.StoreBackend = name
	return cfg.Validate()
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	st, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	switch args[0] {
	case "seed":
		fs := flag.NewFlagSet("seed", flag.ContinueOnError)
		n := fs.Int("n", 100, "number of codes that should exist")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		added, err := seed(ctx, codes.NewGenerator(), st, *n)
		if err != nil {
			return err
		}
		logger.Info("codes seeded", "added", added, "target", *n)

	case "first":
		code, err := first(ctx, st)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, code)
		return err

	case "qr":
		fs := flag.NewFlagSet("qr", flag.ContinueOnError)
		out := fs.String("out", "qrcodes_for_print", "output directory")
		size := fs.Int("size", 512, "image size in pixels")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		written, err := writeQRCodes(ctx, st, cfg.BaseURL, *out, *size)
		if err != nil {
			return err
		}
		logger.Info("qr codes written", "count", written, "dir", *out)

	default:
		return fmt.Errorf("unknown command %q: %s", args[0], usage)
	}
	return nil
}

// seed issues fresh codes until target codes exist and reports how many
// were added.
func seed(ctx context.Context, gen *codes.Generator, st codeStore, target int) (int, error) {
	if target > codes.Capacity {
		return 0, fmt.Errorf("target %d exceeds the %d available codes", target, codes.Capacity)
	}

	existing, err := st.ListCodes(ctx)
	if err != nil {
		return 0, fmt.Errorf("list codes: %w", err)
	}

	added := 0
	for len(existing)+added < target {
		code, err := gen.Unique(ctx, st)
		if err != nil {
			return added, err
		}
		if err := st.IssueCode(ctx, code); err != nil {
			if errors.Is(err, store.ErrCodeTaken) {
				continue
			}
			return added, fmt.Errorf("issue code %s: %w", code, err)
		}
		added++
	}
	return added, nil
}

func first(ctx context.Context, st codeStore) (string, error) {
	all, err := st.ListCodes(ctx)
	if err != nil {
		return "", fmt.Errorf("list codes: %w", err)
	}
	if len(all) == 0 {
		return "", errors.New("no codes issued yet, run codes seed first")
	}
	return all[0], nil
}

func writeQRCodes(ctx context.Context, st codeStore, baseURL, dir string, size int) (int, error) {
	all, err := st.ListCodes(ctx)
	if err != nil {
		return 0, fmt.Errorf("list codes: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	for i, code := range all {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		png, err := qrcard.PNG(qrcard.EntryURL(baseURL, code), size)
		if err != nil {
			return i, fmt.Errorf("render %s: %w", code, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "aurana_qr_"+code+".png"), png, 0o644); err != nil {
			return i, err
		}
	}
	return len(all), nil
}
