package config

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is sent with every backend request. Some CDNs refuse
// requests without a browser-looking agent string.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"

// Default tuning values.
const (
	DefaultRetries             = 10
	DefaultFragmentRetries     = 10
	DefaultSocketTimeout       = 30
	DefaultConcurrentFragments = 1
)

// Options holds the engine tuning knobs persisted between runs.
type Options struct {
	// EnableFallbacks allows trying alternative selector strategies after
	// the primary one fails. When false a request makes exactly one
	// attempt.
	EnableFallbacks bool `yaml:"enable_fallbacks"`

	// VerboseTracing switches per-attempt logging from warnings-only to
	// full debug traces.
	VerboseTracing bool `yaml:"verbose_tracing"`

	Retries              int `yaml:"retries"`
	FragmentRetries      int `yaml:"fragment_retries"`
	SocketTimeoutSeconds int `yaml:"socket_timeout_seconds"`
	ConcurrentFragments  int `yaml:"concurrent_fragments"`

	HTTPHeaders map[string]string `yaml:"http_headers"`
}

// Default returns the options used when no config file exists.
func Default() Options {
	return Options{
		EnableFallbacks:      true,
		Retries:              DefaultRetries,
		FragmentRetries:      DefaultFragmentRetries,
		SocketTimeoutSeconds: DefaultSocketTimeout,
		ConcurrentFragments:  DefaultConcurrentFragments,
		HTTPHeaders: map[string]string{
			"User-Agent": DefaultUserAgent,
		},
	}
}

// SocketTimeout returns the socket timeout as a duration.
func (o Options) SocketTimeout() time.Duration {
	return time.Duration(o.SocketTimeoutSeconds) * time.Second
}

// Load reads options from the YAML file at path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func Load(fs afero.Fs, path string) (Options, error) {
	opts := Default()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if _, statErr := fs.Stat(path); statErr != nil {
			return opts, nil
		}
		return opts, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Default(), fmt.Errorf("parsing config: %w", err)
	}

	// Zero numeric values mean "not set"; restore the defaults so a sparse
	// file cannot disable retries entirely.
	if opts.Retries <= 0 {
		opts.Retries = DefaultRetries
	}
	if opts.FragmentRetries <= 0 {
		opts.FragmentRetries = DefaultFragmentRetries
	}
	if opts.SocketTimeoutSeconds <= 0 {
		opts.SocketTimeoutSeconds = DefaultSocketTimeout
	}
	if opts.ConcurrentFragments <= 0 {
		opts.ConcurrentFragments = DefaultConcurrentFragments
	}
	if opts.HTTPHeaders == nil {
		opts.HTTPHeaders = Default().HTTPHeaders
	}

	return opts, nil
}

// Save writes options as YAML to path.
func Save(fs afero.Fs, path string, opts Options) error {
	data, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
