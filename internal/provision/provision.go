package provision

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Method is how a missing asset is acquired.
type Method int

const (
	// Fetch downloads the asset from Asset.Source.
	Fetch Method = iota
	// Generate creates the asset locally.
	Generate
)

func (m Method) String() string {
	switch m {
	case Fetch:
		return "network-fetch"
	case Generate:
		return "local-generate"
	default:
		return "unknown"
	}
}

// Status is the result of a successful Ensure.
type Status int

const (
	// Present means LocalPath already existed; nothing was done.
	Present Status = iota
	// Acquired means the asset was fetched or generated by this call.
	Acquired
)

func (s Status) String() string {
	if s == Acquired {
		return "acquired"
	}
	return "present"
}

// Asset is one external dependency of a generated project.
type Asset struct {
	ID        string
	LocalPath string
	Method    Method
	// Source is the download URL for Fetch assets.
	Source string
}

// Acquirer produces a missing asset at its LocalPath.
type Acquirer interface {
	Acquire(ctx context.Context, a Asset) error
}

// Sentinel errors wrapped by AcquisitionError.
var (
	ErrNetworkAcquisition   = errors.New("network acquisition failed")
	ErrCredentialGeneration = errors.New("credential generation failed")
	ErrNoAcquirer           = errors.New("no acquirer configured")
)

// AcquisitionError reports a failed acquisition. It matches both the
// method's sentinel and the underlying cause with errors.Is.
type AcquisitionError struct {
	AssetID string
	Method  Method
	Err     error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquiring %s (%s): %v", e.AssetID, e.Method, e.Err)
}

func (e *AcquisitionError) Unwrap() []error {
	return []error{e.sentinel(), e.Err}
}

func (e *AcquisitionError) sentinel() error {
	switch e.Method {
	case Fetch:
		return ErrNetworkAcquisition
	case Generate:
		return ErrCredentialGeneration
	default:
		return ErrNoAcquirer
	}
}

// Provisioner dispatches missing assets to the acquirer for their method.
type Provisioner struct {
	acquirers map[Method]Acquirer
	logger    *zap.Logger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithAcquirer registers a for method m.
func WithAcquirer(m Method, a Acquirer) Option {
	return func(p *Provisioner) {
		p.acquirers[m] = a
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provisioner) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Provisioner with the given options.
func New(opts ...Option) *Provisioner {
	p := &Provisioner{
		acquirers: make(map[Method]Acquirer),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Exists reports whether the asset is present.
func Exists(a Asset) bool {
	_, err := os.Stat(a.LocalPath)
	return err == nil
}

// Ensure acquires a unless its LocalPath already exists. A second call for
// the same asset is a no-op returning Present.
func (p *Provisioner) Ensure(ctx context.Context, a Asset) (Status, error) {
	if Exists(a) {
		p.logger.Debug("asset present", zap.String("asset", a.ID), zap.String("path", a.LocalPath))
		return Present, nil
	}

	acq, ok := p.acquirers[a.Method]
	if !ok {
		return Present, &AcquisitionError{AssetID: a.ID, Method: -1, Err: fmt.Errorf("%w for %s", ErrNoAcquirer, a.Method)}
	}

	p.logger.Debug("acquiring asset",
		zap.String("asset", a.ID),
		zap.Stringer("method", a.Method),
		zap.String("path", a.LocalPath))

	if err := acq.Acquire(ctx, a); err != nil {
		return Present, &AcquisitionError{AssetID: a.ID, Method: a.Method, Err: err}
	}
	if !Exists(a) {
		return Present, &AcquisitionError{AssetID: a.ID, Method: a.Method,
			Err: fmt.Errorf("%s was not created", a.LocalPath)}
	}
	return Acquired, nil
}

var printer = message.NewPrinter(language.English)

// FormatSize renders a byte count with digit grouping ("1,234,567 bytes").
func FormatSize(n int64) string {
	return printer.Sprintf("%d bytes", n)
}

// Size returns the on-disk size of the asset, or -1 if it cannot be read.
func Size(a Asset) int64 {
	info, err := os.Stat(a.LocalPath)
	if err != nil {
		return -1
	}
	return info.Size()
}
