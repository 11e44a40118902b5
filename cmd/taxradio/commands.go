package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-taxradio/components/metabox"
	"github.com/goliatone/go-taxradio/pkg/model"
	"github.com/goliatone/go-taxradio/pkg/orchestrator"
	"github.com/goliatone/go-taxradio/pkg/render"
	"github.com/goliatone/go-taxradio/pkg/renderers/tui"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
	"github.com/goliatone/go-taxradio/pkg/taxradio"
)

type widgetFlags struct {
	item           int64
	force          bool
	title          string
	noneLabel      string
	forcedTaxonomy string
}

func (f *widgetFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.item, "item", 0, "Item whose assignment is shown")
	cmd.Flags().BoolVar(&f.force, "force-selection", false, "Hide the \"none\" option")
	cmd.Flags().StringVar(&f.title, "title", "", "Panel title (default: taxonomy plural label)")
	cmd.Flags().StringVar(&f.noneLabel, "none-label", "", "Format of the \"none\" label, %s is the singular label")
	cmd.Flags().StringVar(&f.forcedTaxonomy, "forced", "", "Treat the taxonomy as always requiring a term: true or false (default: only category)")
}

func (f *widgetFlags) options() ([]taxradio.OptionFn, error) {
	fns := []taxradio.OptionFn{
		taxradio.WithForceSelection(f.force),
		taxradio.WithMetaboxTitle(f.title),
	}
	if f.noneLabel != "" {
		fns = append(fns, taxradio.WithNoneLabel(f.noneLabel))
	}
	if f.forcedTaxonomy != "" {
		forced, err := strconv.ParseBool(f.forcedTaxonomy)
		if err != nil {
			return nil, fmt.Errorf("--forced: %w", err)
		}
		fns = append(fns, taxradio.WithForcedTaxonomy(forced))
	}
	return fns, nil
}

func (a *app) orchestrator(flags *widgetFlags) (*orchestrator.Orchestrator, error) {
	fns, err := flags.options()
	if err != nil {
		return nil, err
	}
	return orchestrator.New(a.host,
		orchestrator.WithLogger(a.logger),
		orchestrator.WithWidgetOptions(fns...),
	), nil
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		flags    widgetFlags
		renderer string
		fragment bool
		output   string
	)
	cmd := &cobra.Command{
		Use:   "render <taxonomy>",
		Short: "Render the radio panel of a taxonomy for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := a.orchestrator(&flags)
			if err != nil {
				return err
			}
			out, err := orch.Generate(cmd.Context(), orchestrator.Request{
				Taxonomy:      args[0],
				Item:          taxonomy.ItemID(flags.item),
				Renderer:      renderer,
				RenderOptions: render.RenderOptions{Fragment: fragment},
			})
			if err != nil {
				return err
			}
			if output != "" {
				if err := os.WriteFile(output, out, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Panel written to %s\n", output)
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&renderer, "renderer", "r", "vanilla", "Renderer to use: vanilla or json")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "Render only hidden fields and the list, without panel chrome")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}

func newOptionsCmd(a *app) *cobra.Command {
	var flags widgetFlags
	cmd := &cobra.Command{
		Use:   "options <taxonomy>",
		Short: "List the options of a taxonomy panel and which one is checked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := a.orchestrator(&flags)
			if err != nil {
				return err
			}
			w, err := orch.Widget(args[0])
			if err != nil {
				return err
			}
			box, err := w.Collect(cmd.Context(), taxonomy.ItemID(flags.item))
			if err != nil {
				return err
			}
			return printOptions(cmd.OutOrStdout(), box.Title, box.List.FieldName, box.List.Options)
		},
	}
	flags.register(cmd)
	return cmd
}

func printOptions(out io.Writer, title, field string, options []model.Option) error {
	fmt.Fprintf(out, "%s (%s)\n", title, field)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, opt := range options {
		mark := "( )"
		if opt.Checked {
			mark = "(*)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%q\t%s\n", mark, opt.Label, opt.FormValue, opt.DOMID)
	}
	return tw.Flush()
}

func newPickCmd(a *app) *cobra.Command {
	var (
		flags  widgetFlags
		format string
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "pick <taxonomy>",
		Short: "Pick a term in the terminal and print or save the submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := a.orchestrator(&flags)
			if err != nil {
				return err
			}
			w, err := orch.Widget(args[0])
			if err != nil {
				return err
			}
			item := taxonomy.ItemID(flags.item)
			box, err := w.Collect(cmd.Context(), item)
			if err != nil {
				return err
			}
			pickerOpts := []tui.Option{tui.WithOutputFormat(tui.OutputFormat(format))}
			if a.prompt != nil {
				pickerOpts = append(pickerOpts, tui.WithPromptDriver(a.prompt))
			}
			picker, err := tui.New(pickerOpts...)
			if err != nil {
				return err
			}
			picked, err := picker.Pick(cmd.Context(), box.Title, box.List)
			if errors.Is(err, tui.ErrAborted) {
				return nil
			}
			if err != nil {
				return err
			}

			if save {
				if a.host.Writer == nil {
					return fmt.Errorf("the selected host cannot store assignments")
				}
				values := url.Values{box.List.FieldName: {picked.FormValue}}
				if _, err := w.Save(cmd.Context(), a.host.Writer, item, values); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s for item %d\n", picked.Label, item)
				return nil
			}

			out, err := picker.Encode(box, picked, render.RenderOptions{})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "Output format: json, form or pretty")
	cmd.Flags().BoolVar(&save, "save", false, "Store the selection instead of printing it")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var (
		flags      widgetFlags
		addr       string
		basePath   string
		taxonomies []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve taxonomy panels over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Addr
			}
			orch, err := a.orchestrator(&flags)
			if err != nil {
				return err
			}
			handler, err := buildServer(cmd.Context(), a, orch, basePath, taxonomies)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("taxradio listening", zap.String("addr", addr))
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: TAXRADIO_ADDR or :8080)")
	cmd.Flags().StringVar(&basePath, "base-path", "/", "Path prefix for all routes")
	cmd.Flags().StringSliceVar(&taxonomies, "taxonomy", nil, "Taxonomies to serve (default: every fixture taxonomy)")
	return cmd
}

// buildServer mounts the metabox component for every taxonomy and, for
// fixture hosts, an edit screen that renders the attached panels of an item.
func buildServer(ctx context.Context, a *app, orch *orchestrator.Orchestrator, basePath string, slugs []string) (http.Handler, error) {
	if len(slugs) == 0 && a.host.Memory != nil {
		for _, tax := range a.host.Memory.Taxonomies() {
			slugs = append(slugs, tax.Slug)
		}
	}
	if len(slugs) == 0 {
		return nil, fmt.Errorf("no taxonomies to serve; pass --taxonomy")
	}

	fns := []metabox.OptionFn{
		metabox.WithLogger(a.logger),
		metabox.WithSaver(a.host.Writer, a.host.Verifier),
	}
	for _, slug := range slugs {
		w, err := orch.Widget(slug)
		if err != nil {
			return nil, err
		}
		fns = append(fns, metabox.WithWidget(w))
	}
	renderer, err := orch.Renderer("")
	if err != nil {
		return nil, err
	}
	fns = append(fns, metabox.WithRenderer(renderer))

	mux := http.NewServeMux()
	pattern, err := metabox.New(fns...).RegisterRoutes(mux, basePath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("metabox routes mounted", zap.String("pattern", pattern), zap.Strings("taxonomies", slugs))

	mux.HandleFunc("GET "+joinPath(basePath, "/healthz"), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if a.host.Memory != nil {
		if err := orch.Attach(ctx, a.host.Memory, slugs...); err != nil {
			return nil, err
		}
		mux.Handle("GET "+joinPath(basePath, "/items/{type}/{id}"), editScreen(a, pattern))
	}
	return mux, nil
}

// editScreen renders every attached panel of an item type inside a form that
// posts to the metabox routes.
func editScreen(a *app, pattern string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id < 0 {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		itemType := r.PathValue("type")

		var b strings.Builder
		for _, box := range a.host.Memory.Metaboxes(itemType) {
			if box.Render == nil {
				continue
			}
			out, err := box.Render(r.Context(), taxonomy.ItemID(id))
			if err != nil {
				a.logger.Error("render panel", zap.String("metabox", box.ID), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			slug := strings.TrimSuffix(box.ID, "_radio")
			fmt.Fprintf(&b, "<form method=\"post\" action=\"%s%s\">\n<input type=\"hidden\" name=\"item\" value=\"%d\">\n", pattern, url.PathEscape(slug), id)
			b.Write(out)
			b.WriteString("\n<button type=\"submit\">Update</button>\n</form>\n")
		}
		if b.Len() == 0 {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, b.String())
	})
}

func joinPath(basePath, route string) string {
	basePath = strings.TrimRight(strings.TrimSpace(basePath), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return basePath + route
}
