package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"researchctl/internal/client"
	"researchctl/internal/config"
	"researchctl/internal/export"
	"researchctl/internal/lifecycle"
	"researchctl/internal/status"
	"researchctl/internal/ui"
	"researchctl/internal/upload"

	tea "github.com/charmbracelet/bubbletea"
)

// command is one subcommand ready to hand to a ui.Runner.
type command struct {
	action  ui.Action
	options []ui.RunnerOption
	result  *result
}

// result collects what is printed once the UI has exited.
type result struct {
	body       []byte
	printBody  bool
	saved      string
	suggestion string
}

func (c *command) report(w io.Writer) {
	r := c.result
	if r.printBody && len(r.body) > 0 {
		w.Write(r.body)
		if !bytes.HasSuffix(r.body, []byte("\n")) {
			fmt.Fprintln(w)
		}
	}
	if r.saved != "" {
		fmt.Fprintf(w, "Saved %s\n", r.saved)
	}
	if r.suggestion != "" {
		fmt.Fprintf(w, "Suggested export filename: %s\n", r.suggestion)
	}
}

func newCommand(name string, args []string, cfg *config.Config, getClient func() *client.Client) (*command, error) {
	switch name {
	case "step":
		return newStepCommand(args, getClient)
	case "upload":
		return newUploadCommand(args, cfg, getClient)
	case "export":
		return newExportCommand(args, getClient)
	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

func newStepCommand(args []string, getClient func() *client.Client) (*command, error) {
	fs := flag.NewFlagSet("step", flag.ContinueOnError)
	out := fs.String("out", "", "write the response HTML to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 0 {
		return nil, errors.New("step: missing path")
	}
	path := apiPath(fs.Arg(0))
	values, err := parseValues(fs.Args()[1:])
	if err != nil {
		return nil, fmt.Errorf("step: %w", err)
	}

	res := &result{printBody: *out == ""}
	elt := lifecycle.Element{ID: elementID(path), Path: path}
	action := func(ctx context.Context, send func(tea.Msg), _ string) error {
		resp, err := getClient().PostForm(ctx, elt, path, values)
		if err != nil {
			return err
		}
		res.body = resp.Body
		res.suggestion = suggestionFor(path, resp)
		if *out != "" {
			if err := os.WriteFile(*out, resp.Body, 0o644); err != nil {
				send(status.ErrorMsg{Text: "Failed to save response"})
				return fmt.Errorf("write %s: %w", *out, err)
			}
			res.saved = *out
		}
		return nil
	}
	return &command{action: action, result: res}, nil
}

func newUploadCommand(args []string, cfg *config.Config, getClient func() *client.Client) (*command, error) {
	if len(args) != 1 {
		return nil, errors.New("upload: expected exactly one file")
	}
	guard := upload.NewGuard(cfg.MaxUploadBytes())
	path := args[0]

	res := &result{}
	elt := lifecycle.Element{ID: "upload-form", Path: client.PathUploadPDF}
	action := func(ctx context.Context, send func(tea.Msg), _ string) error {
		f, err := guard.Select(path)
		if err != nil {
			send(status.ErrorMsg{Text: upload.UserMessage(err)})
			return err
		}
		send(status.NoticeMsg{Text: f.Notice()})

		f, err = guard.Submit()
		if err != nil {
			send(status.ErrorMsg{Text: upload.UserMessage(err)})
			return err
		}
		send(status.RequestStartMsg{Element: elt, Label: upload.SubmitLabel})
		resp, err := getClient().UploadPDF(ctx, elt, client.PathUploadPDF, f.Path)
		if err != nil {
			return err
		}
		res.body = resp.Body
		res.suggestion = suggestionFor(client.PathUploadPDF, resp)
		return nil
	}
	return &command{action: action, result: res}, nil
}

func newExportCommand(args []string, getClient func() *client.Client) (*command, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	custom := fs.Bool("custom", false, "use the custom filename endpoint")
	filename := fs.String("filename", "", "output filename (prompted for with -custom when empty)")
	title := fs.String("title", "", "report heading used for the filename suggestion")
	page := fs.String("page", "", "HTML file whose first heading is used for the suggestion")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	values, err := parseValues(fs.Args())
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	heading := *title
	if heading == "" && *page != "" {
		f, err := os.Open(*page)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		heading = export.Heading(f)
		f.Close()
	}

	path := client.PathExportPDF
	if *custom {
		path = client.PathExportPDFCustom
	}

	cmd := &command{result: &result{}}
	if *custom && *filename == "" {
		field := export.NewFilenameField()
		field.SetHeading(heading)
		cmd.options = append(cmd.options, ui.WithFilenameField(field))
	}

	elt := lifecycle.Element{ID: "export-form", Path: path}
	cmd.action = func(ctx context.Context, send func(tea.Msg), input string) error {
		name := *filename
		if name == "" {
			name = input
		}
		if name == "" {
			name = export.Suggest(heading)
		}
		name = ensurePDFExt(name)
		if *custom {
			values.Set("custom_filename", name)
		}

		out, err := os.Create(name)
		if err != nil {
			send(status.ErrorMsg{Text: "Cannot create " + name})
			return err
		}
		_, err = getClient().Download(ctx, elt, path, values, out)
		closeErr := out.Close()
		if err != nil {
			os.Remove(name)
			return err
		}
		if closeErr != nil {
			return closeErr
		}
		cmd.result.saved = name
		return nil
	}
	return cmd, nil
}

// suggestionFor returns the export filename suggested by a step response, or
// "" when path does not produce a report.
func suggestionFor(path string, resp *lifecycle.Response) string {
	if resp == nil || !export.SuggestsAfter(path) {
		return ""
	}
	return export.Suggest(export.Heading(bytes.NewReader(resp.Body)))
}

// parseValues turns key=value arguments into form values.
func parseValues(args []string) (url.Values, error) {
	values := url.Values{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		values.Add(k, v)
	}
	return values, nil
}

// apiPath accepts "step1" as shorthand for "/api/step1".
func apiPath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/api/" + p
}

func elementID(path string) string {
	return strings.TrimPrefix(path, "/api/") + "-form"
}

func ensurePDFExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return name
	}
	return name + ".pdf"
}
