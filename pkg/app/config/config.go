package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"pdm/pkg/pdm"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"
)

// Config defines the struct of global config and the struct of the configuration file
type Config struct {
	Flag      FlagConfig      `yaml:"-"`
	Gpio      GpioConfig      `yaml:"gpio"`
	Decoder   DecoderConfig   `yaml:"decoder"`
	Debug     DebugConfig     `yaml:"debug"`
	Webserver WebserverConfig `yaml:"webserver"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	WordLog   WordLogConfig   `yaml:"wordlog"`
}

// FlagConfig defines the configured flags (parameters)
type FlagConfig struct {
	LogLevel   string
	ConfigFile string
}

// GpioConfig defines the watched gpio line
type GpioConfig struct {
	Chip string `yaml:"chip"`
	Line int    `yaml:"line"`
	// Bias is none, pullup or pulldown
	Bias        string        `yaml:"bias"`
	DebounceInt int           `yaml:"debounce"`
	Debounce    time.Duration `yaml:"-"`
	Buffer      int           `yaml:"buffer"`
}

// DecoderConfig defines the pdm timing
type DecoderConfig struct {
	SampleRate uint64  `yaml:"samplerate"`
	Polarity   string  `yaml:"polarity"`
	ZeroTime   uint    `yaml:"zerotime"`
	OneTime    uint    `yaml:"onetime"`
	Tolerance  float64 `yaml:"tolerance"`
	Endian     string  `yaml:"endian"`
}

// WebserverConfig defines the struct of the webserver and webservice configuration and configuration file
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
	// History is the number of words kept for the words webservice
	History int `yaml:"history"`
}

// MQTTConfig defines the struct of the mqtt client configuration and configuration file
type MQTTConfig struct {
	Connection string `yaml:"connection"`
	ClientID   string `yaml:"clientid"`
	Topic      string `yaml:"topic"`
}

// WordLogConfig defines the csv files of decoded words, an empty pattern disables the log
type WordLogConfig struct {
	Pattern string `yaml:"pattern"`
}

// DebugConfig defines the struct of the debug configuration and configuration file
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

func NewConfig() *Config {
	d := pdm.DefaultConfig()

	return &Config{
		Flag: FlagConfig{},
		Gpio: GpioConfig{
			Chip:   "gpiochip0",
			Line:   17,
			Bias:   "none",
			Buffer: 1024,
		},
		Decoder: DecoderConfig{
			SampleRate: 1_000_000,
			Polarity:   d.Polarity.String(),
			ZeroTime:   d.ZeroTime,
			OneTime:    d.OneTime,
			Tolerance:  d.Tolerance,
			Endian:     d.Endian.String(),
		},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Webserver: WebserverConfig{
			URL: "http://0.0.0.0:4000",
			Webservices: map[string]bool{
				"version":    true,
				"health":     true,
				"words":      true,
				"thresholds": true,
			},
			History: 100,
		},
		MQTT: MQTTConfig{
			Connection: "tcp://127.0.0.1:1883",
			ClientID:   "pdm",
			Topic:      "/pdm/word",
		},
	}
}

func (c *Config) LoadConfig() error {
	if err := c.readConfigFile(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
	}

	if c.Flag.LogLevel != "" {
		c.Debug.FlagString = c.Flag.LogLevel
	}
	if err := c.setDebugConfig(); err != nil {
		return fmt.Errorf("unable to open debug file %q: %w", c.Debug.FileString, err)
	}

	c.Gpio.Debounce = time.Duration(c.Gpio.DebounceInt) * time.Microsecond

	if _, err := c.Decoder.Options(); err != nil {
		return fmt.Errorf("decoder section: %w", err)
	}
	return nil
}

// Options converts the decoder section to the pdm timing configuration.
func (d DecoderConfig) Options() (pdm.Config, error) {
	p, err := pdm.ParsePolarity(d.Polarity)
	if err != nil {
		return pdm.Config{}, err
	}
	e, err := pdm.ParseEndianness(d.Endian)
	if err != nil {
		return pdm.Config{}, err
	}

	o := pdm.Config{
		Polarity:  p,
		ZeroTime:  d.ZeroTime,
		OneTime:   d.OneTime,
		Tolerance: d.Tolerance,
		Endian:    e,
	}
	return o, o.Validate()
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(c); err != nil {
		return err
	}

	return nil
}

func (c *Config) setDebugConfig() (err error) {
	// defines Debug section of global.Config
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	default:
		return fmt.Errorf("unknown log level %q", c.Debug.FlagString)
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = os.Stderr
	case "stdout":
		c.Debug.File = os.Stdout
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}
