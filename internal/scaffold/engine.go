package scaffold

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/apkforge/apkforge/internal/android"
	"github.com/apkforge/apkforge/internal/answers"
	"github.com/apkforge/apkforge/internal/branding"
	"github.com/apkforge/apkforge/internal/identity"
	"github.com/apkforge/apkforge/internal/layout"
	"github.com/apkforge/apkforge/internal/logging"
	"github.com/apkforge/apkforge/internal/platform"
	"github.com/apkforge/apkforge/internal/preflight"
	"github.com/apkforge/apkforge/internal/provision"
	"github.com/apkforge/apkforge/internal/render"
	"github.com/apkforge/apkforge/internal/report"
	"github.com/apkforge/apkforge/internal/stamp"
	"go.uber.org/zap"
)

// Asset IDs used in Result.Assets.
const (
	AssetPlatformJar = "platform-jar"
	AssetKeystore    = "debug-keystore"
)

// ErrInterrupted reports that the run's context ended before it finished.
// It also matches the context error with errors.Is.
var ErrInterrupted = errors.New("interrupted")

// Engine holds the collaborators of a scaffold run. The zero value is
// usable: nil fields fall back to the real toolchain, network, and
// compiled-in constants.
type Engine struct {
	Tools      []string
	LookPath   preflight.LookPathFunc
	Reporter   report.Reporter
	Logger     *zap.Logger
	HTTPClient *http.Client
	RunTool    provision.RunFunc
	Consts     android.Constants
	Defaults   identity.Defaults
	Version    string
	Now        func() time.Time
}

// Result is the outcome of a run. An Aborted result has no assets or files.
type Result struct {
	Spec     *identity.ProjectSpec
	Outcome  layout.Outcome
	Assets   map[string]provision.Status
	Files    []string
	Warnings []string
}

// Assets returns the external dependencies of spec's project, in the order
// they are provisioned.
func Assets(spec *identity.ProjectSpec, c android.Constants) []provision.Asset {
	return []provision.Asset{
		{
			ID:        AssetPlatformJar,
			LocalPath: filepath.Join(spec.Root, filepath.FromSlash(android.PlatformJarFile)),
			Method:    provision.Fetch,
			Source:    c.PlatformJarURL,
		},
		{
			ID:        AssetKeystore,
			LocalPath: filepath.Join(spec.Root, filepath.FromSlash(c.Keystore.Path)),
			Method:    provision.Generate,
		},
	}
}

// Run generates one project under parentDir using answers from src.
//
// The returned error is a *preflight.MissingToolsError, answers.ErrNoInput,
// ErrInterrupted, a *provision.AcquisitionError, or a wrapped filesystem
// error. A declined overwrite is not an error. Cancellation is checked
// before every step that writes.
func (e *Engine) Run(ctx context.Context, src answers.Source, parentDir string) (*Result, error) {
	rep := e.reporter()
	log := logging.OrNop(e.Logger)
	consts := e.constants()
	if err := consts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid platform settings: %w", err)
	}

	rep.Status("Checking toolchain...")
	if err := preflight.New(e.LookPath).Check(e.tools()); err != nil {
		return nil, err
	}
	rep.Success("Toolchain complete")

	if err := interrupted(ctx); err != nil {
		return nil, err
	}
	rawName, rawNS, err := src.Identity(ctx)
	if err != nil {
		return nil, interruptedOr(ctx, err)
	}
	spec := identity.NewProjectSpec(rawName, rawNS, parentDir, e.Defaults)
	log.Debug("project identity",
		zap.String("name", spec.Name),
		zap.String("namespace", spec.Namespace),
		zap.String("root", spec.Root))

	res := &Result{Spec: spec, Assets: make(map[string]provision.Status)}
	for _, issue := range identity.NamespaceIssues(spec.Namespace) {
		res.warn(rep, "package name %s: %s; the project will not compile", spec.Namespace, issue)
	}

	if err := interrupted(ctx); err != nil {
		return nil, err
	}
	outcome, err := layout.Prepare(spec, func(root string) (bool, error) {
		return src.ConfirmOverwrite(ctx, root)
	})
	res.Outcome = outcome
	if err != nil {
		return nil, interruptedOr(ctx, err)
	}
	if outcome == layout.Aborted {
		rep.Warn("Cancelled, %s left unchanged", spec.Root)
		return res, nil
	}
	log.Debug("layout prepared", zap.Stringer("outcome", outcome))

	prev, err := stamp.Load(spec.Root)
	if err != nil {
		res.warn(rep, "ignoring previous stamp: %v", err)
	}

	if err := e.provision(ctx, spec, consts, rep, log, res); err != nil {
		return nil, err
	}

	arts, err := render.RenderAll(spec, consts)
	if err != nil {
		return nil, err
	}
	for _, a := range arts {
		if err := interrupted(ctx); err != nil {
			return nil, err
		}
		path := filepath.Join(spec.Root, filepath.FromSlash(a.RelPath))
		if err := platform.WriteFile(path, a.Content, a.Mode); err != nil {
			return nil, err
		}
		log.Debug("wrote artifact", zap.Stringer("kind", a.Kind), zap.String("path", path))
		res.Files = append(res.Files, a.RelPath)
	}

	cur := stamp.Stamp{
		Generator:   branding.CLIName(),
		Version:     e.version(),
		Name:        spec.Name,
		Namespace:   spec.Namespace,
		MinSDK:      consts.MinSDK,
		TargetSDK:   consts.TargetSDK,
		GeneratedAt: e.now().UTC(),
	}
	for _, w := range stamp.Compare(prev, cur) {
		res.warn(rep, "%s", w)
	}
	if err := interrupted(ctx); err != nil {
		return nil, err
	}
	if err := stamp.Save(spec.Root, cur); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, stamp.FileName)

	rep.Success("Project %s generated in %s", spec.Name, spec.Root)
	return res, nil
}

func (e *Engine) provision(ctx context.Context, spec *identity.ProjectSpec, c android.Constants,
	rep report.Reporter, log *zap.Logger, res *Result) error {
	label := "Downloading " + filepath.Base(android.PlatformJarFile)
	drawn := false

	fetchOpts := []provision.FetchOption{
		provision.WithProgress(func(done, total int64) {
			if total < 0 {
				return
			}
			drawn = true
			rep.Progress(label, provision.Percent(done, total))
		}),
	}
	if e.HTTPClient != nil {
		fetchOpts = append(fetchOpts, provision.WithHTTPClient(e.HTTPClient))
	}
	keygen := provision.NewKeyGenerator(c.Keystore)
	if e.RunTool != nil {
		keygen.Run = e.RunTool
	}

	prov := provision.New(
		provision.WithAcquirer(provision.Fetch, provision.NewFetcher(fetchOpts...)),
		provision.WithAcquirer(provision.Generate, keygen),
		provision.WithLogger(log),
	)

	for _, a := range Assets(spec, c) {
		if err := interrupted(ctx); err != nil {
			return err
		}
		rep.Status("Checking %s...", filepath.Base(a.LocalPath))
		status, err := prov.Ensure(ctx, a)
		if drawn {
			rep.Progress(label, -1)
			drawn = false
		}
		if err != nil {
			return interruptedOr(ctx, err)
		}
		res.Assets[a.ID] = status

		switch status {
		case provision.Present:
			rep.Success("%s already present, skipping", filepath.Base(a.LocalPath))
		case provision.Acquired:
			rep.Success("%s ready (%s)", filepath.Base(a.LocalPath), provision.FormatSize(provision.Size(a)))
		}
	}
	return nil
}

// interrupted returns ErrInterrupted once ctx is done.
func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return nil
}

// interruptedOr reports err as an interruption when ctx ended meanwhile.
func interruptedOr(ctx context.Context, err error) error {
	if ierr := interrupted(ctx); ierr != nil {
		return fmt.Errorf("%w: %w", ierr, err)
	}
	return err
}

func (r *Result) warn(rep report.Reporter, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	rep.Warn("%s", msg)
}

func (e *Engine) reporter() report.Reporter {
	if e.Reporter == nil {
		return report.Discard{}
	}
	return e.Reporter
}

func (e *Engine) tools() []string {
	if len(e.Tools) == 0 {
		return preflight.RequiredTools
	}
	return e.Tools
}

func (e *Engine) constants() android.Constants {
	if e.Consts == (android.Constants{}) {
		return android.Defaults()
	}
	return e.Consts
}

func (e *Engine) version() string {
	if e.Version == "" {
		return "dev"
	}
	return e.Version
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
