package runner

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/yaklabco/texgen/internal/logging"
	"github.com/yaklabco/texgen/pkg/ast"
	"github.com/yaklabco/texgen/pkg/backend"
	"github.com/yaklabco/texgen/pkg/settings"
	"github.com/yaklabco/texgen/pkg/source"
	"github.com/yaklabco/texgen/pkg/subst"
)

// Compile runs one document through the whole pipeline. Parse
// diagnostics do not fail the run; they are reported in the result,
// and output generation is skipped when any of them is an error.
// The returned error covers environmental failures: unreadable input,
// bad configuration, unknown backend, output write problems.
func Compile(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	text, header, err := source.LoadFile(opts.Input)
	if err != nil {
		return nil, err
	}
	logger.Debug("document loaded",
		logging.FieldInput, opts.Input,
		logging.FieldEncoding, header.Encoding,
		logging.FieldInputMethods, header.InputMethods)

	methodDirs := append([]string{filepath.Dir(opts.Input)}, opts.MethodDirs...)
	tables, err := subst.Load(header.InputMethods, methodDirs...)
	if err != nil {
		return nil, err
	}

	b, err := backend.Lookup(opts.effectiveBackend())
	if err != nil {
		return nil, err
	}
	st, err := loadSettings(b, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	buf, issues := source.NewFromRaw(text, opts.Input, tables)

	diags := &ast.Diagnostics{}
	diags.AddIssues(issues)

	doc := ast.NewDocument(diags)
	doc.SetLanguage(st.String("document.language", ""))
	if err := doc.Parse(buf); err != nil {
		return nil, err
	}

	result := &Result{Diagnostics: diags.All()}
	result.Stats.Errors, result.Stats.Warnings = diags.Counts()
	ast.Walk(doc, func(ast.Node) bool {
		result.Stats.Nodes++
		return true
	})

	if diags.HasErrors() {
		logger.Debug("skipping generation",
			logging.FieldErrors, result.Stats.Errors)
		result.Stats.Duration = time.Since(start)
		return result, nil
	}

	out, err := backend.Generate(ctx, b, doc, backend.Options{
		InputPath:  opts.Input,
		OutputPath: opts.Output,
		Settings:   st,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	result.OutputPath = out
	result.Stats.Duration = time.Since(start)

	logger.Debug("compilation finished",
		logging.FieldOutput, out,
		logging.FieldNodes, result.Stats.Nodes,
		logging.FieldDuration, result.Stats.Duration)
	return result, nil
}

// loadSettings builds the settings store for a run: document defaults
// first, then the backend's, then the store closes and user
// configuration may only override what was registered.
func loadSettings(b backend.Backend, configPath string) (*settings.Store, error) {
	st := settings.NewStore()
	if err := st.SetDefault("document.language", ast.DefaultLanguage); err != nil {
		return nil, err
	}
	if c, ok := b.(backend.Configurable); ok {
		if err := c.RegisterDefaults(st); err != nil {
			return nil, err
		}
	}
	st.Close()

	if configPath != "" {
		if err := st.LoadYAML(configPath); err != nil {
			return nil, err
		}
		return st, nil
	}
	if err := st.LoadYAML(".texgen.yaml"); err != nil && !errors.Is(err, settings.ErrNotFound) {
		return nil, err
	}
	return st, nil
}
