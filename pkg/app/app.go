package app

import (
	"errors"
	"fmt"
	"net/url"

	"pdm/pkg/app/config"
	"pdm/pkg/line"
	"pdm/pkg/mqtt"
	"pdm/pkg/pdm"
	"pdm/pkg/wordlog"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Url parameter
	// and makes it easier to get params out of e.g.
	// url: https://0.0.0.0:7844/?minTls=1.2&bodyLimit=50MB
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// line is the watched gpio line
	line *line.Line

	// decoder is the pdm decoder of the line
	decoder *pdm.Decoder

	// words holds the last decoded words for the web services
	words *wordStore

	// wordlog saves decoded words to csv files, nil if disabled
	wordlog *wordlog.Log

	// done is closed when the decoder stopped
	done chan struct{}
}

// New checks the Web server URL and the decoder options and initialize the main app structure
func New(config *config.Config) (*App, error) {
	u, err := url.Parse(config.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", config.Webserver.URL, err.Error())
		return nil, err
	}

	opts, err := config.Decoder.Options()
	if err != nil {
		return nil, err
	}

	app := &App{
		config:    config,
		urlParsed: u,
		web:       fiber.New(fiber.Config{DisableStartupMessage: true}),
		mqtt:      mqtt.New(),
		words:     newWordStore(config.Webserver.History),
	}

	sinks := []pdm.Sink{app.words, mqtt.NewPublisher(app.mqtt, config.MQTT.Topic)}

	if config.WordLog.Pattern != "" {
		if app.wordlog, err = wordlog.New(config.WordLog.Pattern); err != nil {
			return nil, err
		}
		sinks = append(sinks, app.wordlog)
	}

	if app.decoder, err = pdm.New(opts, pdm.Tee(sinks...)); err != nil {
		return nil, err
	}
	app.decoder.SetSampleRate(config.Decoder.SampleRate)

	app.initDefaultRoutes()
	return app, nil
}

// Run starts the application.
func (app *App) Run() error {
	if err := app.init(); err != nil {
		return err
	}

	app.done = make(chan struct{})

	go app.mqtt.Service()
	go app.runWebServer()
	go app.decode()

	return nil
}

// init opens the gpio line and connects the mqtt broker.
func (app *App) init() (err error) {
	if app.config.Decoder.SampleRate == 0 {
		return pdm.ErrNoSampleRate
	}

	app.line, err = line.Open(line.Config{
		Chip:       app.config.Gpio.Chip,
		Offset:     app.config.Gpio.Line,
		Bias:       app.config.Gpio.Bias,
		Debounce:   app.config.Gpio.Debounce,
		SampleRate: app.config.Decoder.SampleRate,
		Buffer:     app.config.Gpio.Buffer,
	})
	if err != nil {
		debug.ErrorLog.Printf("can't open gpio line %v: %v", app.config.Gpio.Line, err)
		return err
	}

	if err = app.mqtt.Connect(app.config.MQTT.Connection, app.config.MQTT.ClientID); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker %v", err)
		return err
	}

	return nil
}

// decode runs the decoder until the line is closed.
func (app *App) decode() {
	defer close(app.done)

	if err := app.decoder.Decode(app.line); err != nil {
		debug.ErrorLog.Printf("decoder stopped: %v", err)
		return
	}
	debug.InfoLog.Print("decoder stopped")
}

// Close stops decoding and releases all resources.
func (app *App) Close() error {
	var errs []error

	if app.line != nil {
		if err := app.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing gpio line: %w", err))
		}
		if app.done != nil {
			<-app.done
		}
	}

	_ = app.mqtt.Disconnect()

	if app.wordlog != nil {
		if err := app.wordlog.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing word log: %w", err))
		}
	}

	// the web server only runs after Run
	if app.done != nil {
		if err := app.web.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("stopping web server: %w", err))
		}
	}

	return errors.Join(errs...)
}
