package di

import (
	"fmt"

	"domquery/internal/application/port/input"
	"domquery/internal/application/port/output"
	"domquery/internal/application/service"
	"domquery/internal/domain/entity"
	"domquery/internal/infrastructure/analyzer/live"
	"domquery/internal/infrastructure/analyzer/static"
	"domquery/internal/infrastructure/browser"
	"domquery/internal/infrastructure/browser/chromedp"
	"domquery/internal/infrastructure/browser/playwright"
	"domquery/internal/infrastructure/browser/rod"
	"domquery/internal/infrastructure/browser/webdriver"
	"domquery/internal/infrastructure/logger"
	"domquery/internal/usecase/inspect"
)

const (
	KeyHeadless     = "DOMQUERY_HEADLESS"
	KeyNoSandbox    = "DOMQUERY_NO_SANDBOX"
	KeySlowMotion   = "DOMQUERY_SLOW_MOTION"
	KeyTimeout      = "DOMQUERY_TIMEOUT"
	KeyWebDriverURL = "DOMQUERY_WEBDRIVER_URL"
	KeyLogLevel     = "DOMQUERY_LOG_LEVEL"
	KeyLogDir       = "DOMQUERY_LOG_DIR"
)

type Container struct {
	Logger    output.LoggerPort
	Analyzers *service.AnalyzerRegistryImpl
	Inspector input.Inspector
}

type Config struct {
	Browser browser.Config
	Logger  logger.Config
	// Clean runs the markup cleaner before the soup backend parses.
	Clean bool
}

func DefaultConfig() Config {
	return Config{
		Browser: browser.DefaultConfig(),
		Logger:  logger.DefaultConfig(),
	}
}

// ConfigFromEnv reads DOMQUERY_* settings on top of the defaults.
func ConfigFromEnv(env output.ConfigPort) Config {
	cfg := DefaultConfig()

	b := &cfg.Browser
	b.Headless = env.GetBool(KeyHeadless, b.Headless)
	b.NoSandbox = env.GetBool(KeyNoSandbox, b.NoSandbox)
	b.SlowMotion = env.GetDuration(KeySlowMotion, b.SlowMotion)
	b.Timeout = env.GetDuration(KeyTimeout, b.Timeout)
	b.WebDriverURL = env.GetWithDefault(KeyWebDriverURL, b.WebDriverURL)

	cfg.Logger.Level = env.GetWithDefault(KeyLogLevel, cfg.Logger.Level)
	cfg.Logger.Dir = env.GetWithDefault(KeyLogDir, cfg.Logger.Dir)
	return cfg
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return NewContainerWithLogger(cfg, log), nil
}

// NewContainerWithLogger wires the registry and use case around log. The
// container takes ownership of log and closes it in Close.
func NewContainerWithLogger(cfg Config, log output.LoggerPort) *Container {
	var staticOpts []static.Option
	if cfg.Clean {
		staticOpts = append(staticOpts, static.WithCleaner(nil))
	}

	registry := service.NewDefaultAnalyzerRegistry(
		func() output.Analyzer { return static.New(staticOpts...) },
		liveConstructor(entity.BackendSelenium, rod.Factory(cfg.Browser), log),
	)
	registerBrowserBackends(registry, cfg.Browser, log)

	return &Container{
		Logger:    log,
		Analyzers: registry,
		Inspector: inspect.New(registry, log),
	}
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func registerBrowserBackends(registry *service.AnalyzerRegistryImpl, cfg browser.Config, log output.LoggerPort) {
	registry.Register(entity.BackendRod, liveConstructor(entity.BackendRod, rod.Factory(cfg), log))
	registry.Register(entity.BackendChromedp, liveConstructor(entity.BackendChromedp, chromedp.Factory(cfg), log))
	registry.Register(entity.BackendPlaywright, liveConstructor(entity.BackendPlaywright, playwright.Factory(cfg), log))
	registry.Register(entity.BackendWebDriver, liveConstructor(entity.BackendWebDriver, webdriver.Factory(cfg), log))
}

func liveConstructor(name string, factory output.SessionFactory, log output.LoggerPort) output.AnalyzerConstructor {
	return func() output.Analyzer {
		return live.New(factory,
			live.WithBackendName(name),
			live.WithLogger(log.Named(name)),
		)
	}
}
