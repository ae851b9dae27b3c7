package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstudio/pkg/renderers/html"
	"github.com/goliatone/go-formstudio/pkg/runtime"
	"github.com/goliatone/go-formstudio/pkg/schema"
	"github.com/goliatone/go-formstudio/pkg/schemafile"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

const assetsPrefix = "/assets/"

func newServeCmd(a *app) *cobra.Command {
	var (
		flags    htmlFlags
		addr     string
		record   string
		validate bool
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve a form over HTTP and log submissions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			initial, err := schemafile.Load(path, storeLogger(a))
			if err != nil {
				return err
			}
			var current atomic.Pointer[schema.Store]
			current.Store(initial)

			if flags.stylesheet == "" {
				flags.stylesheet = assetsPrefix + html.StylesheetName
			}
			renderer, err := flags.renderer(a)
			if err != nil {
				return err
			}

			recorder, err := newSubmissionLog(record, a.logger)
			if err != nil {
				return err
			}
			defer recorder.Close()

			handlerOpts := []html.HandlerOption{
				html.WithHandlerLogger(a.logger),
				html.WithSink(recorder.Record),
			}
			if validate {
				handlerOpts = append(handlerOpts, html.WithValidator(validation.New()))
			}
			handler := html.NewHandler(renderer, current.Load, handlerOpts...)

			if watch {
				go func() {
					err := schemafile.Watch(ctx, path, func(store *schema.Store) {
						current.Store(store)
						a.logger.Info("form reloaded", "path", path, "fields", store.Len())
					}, schemafile.WithWatchLogger(a.logger), schemafile.WithStoreOptions(storeLogger(a)))
					if err != nil {
						a.logger.Error("watch stopped", "path", path, "error", err)
					}
				}()
			}

			return serve(ctx, addr, newMux(handler), a.logger)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&record, "record", "", "Append accepted submissions to this JSON lines file")
	cmd.Flags().BoolVar(&validate, "validate", true, "Reject submissions that fail validation")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the form whenever the document changes")
	return cmd
}

func newMux(form http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(assetsPrefix, http.StripPrefix(assetsPrefix, html.AssetsHandler()))
	mux.Handle("/", form)
	return mux
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

// submissionLog logs every accepted submission and optionally appends it to
// a JSON lines file.
type submissionLog struct {
	mu     sync.Mutex
	file   *os.File
	logger *slog.Logger
}

type submissionEntry struct {
	ID         string         `json:"id"`
	ReceivedAt time.Time      `json:"receivedAt"`
	Values     runtime.Values `json:"values"`
}

func newSubmissionLog(path string, logger *slog.Logger) (*submissionLog, error) {
	l := &submissionLog{logger: logger}
	if path == "" {
		return l, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open submission log: %w", err)
	}
	l.file = f
	return l, nil
}

// Record satisfies runtime.Sink.
func (l *submissionLog) Record(values runtime.Values) {
	entry := submissionEntry{
		ID:         uuid.NewString(),
		ReceivedAt: time.Now().UTC(),
		Values:     values,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Error("encode submission", "id", entry.ID, "error", err)
		return
	}
	// Values stay out of the log; only the --record file keeps them.
	l.logger.Info("submission received", "id", entry.ID, "fields", len(values))

	if l.file == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(append(data, '\n')); err != nil {
		l.logger.Error("write submission", "id", entry.ID, "error", err)
	}
}

func (l *submissionLog) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
