package cellular

import (
	"log"
	"time"

	"github.com/binsentry/cellular-bg770/celltypes"
)

// Config bundles the compile-time constants spec.md §6.3 calls out, built
// with functional options the way the teacher's cmd/ examples already
// build serial.Option/at.Option values.
type Config struct {
	DefaultRAT                        celltypes.RATTriple
	URCPort                           celltypes.URCPort
	MaxFileUploadSize                 int
	SkipPostHWFlowControlSetupIfChanged bool
	EnableTimeout                     time.Duration
	PSMTimerBase                      int
	PDPContextID                      int
	Logger                            *log.Logger
}

// Option configures a Config built by NewConfig.
type Option func(*Config)

// WithDefaultRAT sets the RAT scan sequence/default, up to three entries.
func WithDefaultRAT(rats celltypes.RATTriple) Option {
	return func(c *Config) { c.DefaultRAT = rats }
}

// WithURCPort sets the logical port URCs are routed to ("main" by default).
func WithURCPort(port celltypes.URCPort) Option {
	return func(c *Config) { c.URCPort = port }
}

// WithMaxFileUploadSize bounds UploadFileToModem's accepted buffer size.
func WithMaxFileUploadSize(n int) Option {
	return func(c *Config) { c.MaxFileUploadSize = n }
}

// WithSkipPostHWFlowControlSetupIfChanged mirrors spec.md §4.8 step 5: when
// set, EnableUE returns early (FullInitSkipped=true) the first time it has
// to change the UART's flow-control setting, requiring the caller to
// re-invoke it after the UART reconfigures.
func WithSkipPostHWFlowControlSetupIfChanged(skip bool) Option {
	return func(c *Config) { c.SkipPostHWFlowControlSetupIfChanged = skip }
}

// WithEnableTimeout bounds the whole EnableUE sequence, not any single step
// (each step is already bounded by at.DefaultRetryPolicy).
func WithEnableTimeout(d time.Duration) Option {
	return func(c *Config) { c.EnableTimeout = d }
}

// WithPSMTimerBase overrides the numeric base (2 or 10) PSM timer fields are
// parsed with when reading +QPSMS/+QPSMCFG; the PSM formatters always write
// base-2 fields. See DESIGN.md's resolution of spec.md §9's open question.
func WithPSMTimerBase(base int) Option {
	return func(c *Config) { c.PSMTimerBase = base }
}

// WithPDPContextID sets the default PDP context id used by PDN/DNS/socket
// operations that do not take an explicit one.
func WithPDPContextID(id int) Option {
	return func(c *Config) { c.PDPContextID = id }
}

// WithLogger sets the logger passed down to the at.Engine and
// dnsresolve.Resolver, and used by EnableUE to log failed one-shot
// URC-enable commands.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// defaultConfig matches the BG770 defaults spec.md §6.3 documents: eMTC
// only, main URC port, a 90s enablement budget above the 10s+60s worst
// case; the write guard is left to at.Engine's own 20ms default.
func defaultConfig() Config {
	return Config{
		DefaultRAT:        celltypes.RATTriple{celltypes.RATEMTC},
		URCPort:           celltypes.URCPortMain,
		MaxFileUploadSize: 2 * 1024 * 1024,
		EnableTimeout:     90 * time.Second,
		PSMTimerBase:      2,
		PDPContextID:      1,
		Logger:            log.Default(),
	}
}

// NewConfig builds a Config from defaults plus opts.
func NewConfig(opts ...Option) Config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
