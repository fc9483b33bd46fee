package cell

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the on-disk seed for a cell's identity, loaded from an
// optional YAML file passed with the daemon's -c flag, the same
// load-then-override pattern the teacher's cmd/dmrstream uses for its
// repeater configuration.
type Config struct {
	MCC            uint16 `yaml:"mcc"`
	MNC            uint16 `yaml:"mnc"`
	ColourCode     uint8  `yaml:"colour_code"`
	DownlinkFreqHz uint32 `yaml:"downlink_freq_hz"`
}

// LoadConfig reads and parses a cell configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cell: reading config %q: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("cell: parsing config %q: %w", path, err)
	}
	return &c, nil
}

// Seed applies a Config's values to State as the pre-BSCH starting point.
// MCC, MNC, colour code and scrambling code are overridden the moment the
// first BSCH block is decoded; DownlinkFreqHz by the first SYSINFO.
func (s *State) Seed(c *Config) {
	s.MCC = c.MCC
	s.MNC = c.MNC
	s.ColourCode = c.ColourCode
	s.DownlinkFreqHz = c.DownlinkFreqHz
	s.ScramblingCode = deriveScramblingCode(c.ColourCode, c.MCC, c.MNC)
}
