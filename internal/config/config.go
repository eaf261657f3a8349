// Package config loads the daemon's JSON configuration file with
// viper, validating it into the structured form the rest of the
// daemon consumes.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	dlt "github.com/devendranaga/dlt-logger"
)

// SocketType selects the daemon's ingest transport.
type SocketType string

const (
	SocketUnix SocketType = "unix"
	SocketUDPv4 SocketType = "udpv4"
)

// UnixSocketConfig configures the Unix domain datagram ingest socket.
type UnixSocketConfig struct {
	ServerPath string `mapstructure:"server_path"`
}

// StorageServerConfig configures the UDP/IPv4 transport to the
// storage server that receives encoded DLT frames.
type StorageServerConfig struct {
	ServerAddress string `mapstructure:"server_address"`
	ServerPort    int    `mapstructure:"server_port"`
}

// NetworkConfig groups the daemon's ingest and egress transport
// configuration.
type NetworkConfig struct {
	SocketType    SocketType          `mapstructure:"socket_type"`
	UnixSocket    UnixSocketConfig    `mapstructure:"unix_socket"`
	StorageServer StorageServerConfig `mapstructure:"storage_server"`
}

// Config is the daemon's full runtime configuration, matching the
// on-disk JSON schema field for field.
type Config struct {
	HTypeUseExtendedHdr bool   `mapstructure:"htype_use_extended_hdr"`
	HTypeMSBFirst       bool   `mapstructure:"htype_msb_first"`
	HTypeSendECUID      bool   `mapstructure:"htype_send_ecu_id"`
	HTypeSendTimestamp  bool   `mapstructure:"htype_send_timestamp"`
	HTypeVersion        uint8  `mapstructure:"htype_version"`
	HTypeECUID          string `mapstructure:"htype_ecu_id"`

	ExtHdrVerboseMode bool `mapstructure:"ext_hdr_verbose_mode"`

	Network NetworkConfig `mapstructure:"network"`

	LogToConsole bool `mapstructure:"log_to_console"`
}

// Load reads and validates a JSON configuration file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, dlt.Wrap("CONFIG_LOAD", dlt.CodeConfigMalformed, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, dlt.Wrap("CONFIG_LOAD", dlt.CodeConfigMalformed, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required fields the daemon cannot run without.
func Validate(cfg *Config) error {
	if cfg.HTypeECUID == "" {
		return dlt.New("CONFIG_VALIDATE", dlt.CodeConfigMalformed, "htype_ecu_id is required")
	}
	if cfg.HTypeVersion > 7 {
		return dlt.New("CONFIG_VALIDATE", dlt.CodeConfigMalformed,
			fmt.Sprintf("htype_version %d exceeds the 3-bit field range", cfg.HTypeVersion))
	}

	switch cfg.Network.SocketType {
	case SocketUnix:
		if cfg.Network.UnixSocket.ServerPath == "" {
			return dlt.New("CONFIG_VALIDATE", dlt.CodeConfigMalformed,
				"network.unix_socket.server_path is required when socket_type is unix")
		}
	case SocketUDPv4:
		// udpv4 ingest is reserved for a future revision of the ingest
		// socket; only the unix transport is wired to internal/pipeline.
	default:
		return dlt.New("CONFIG_VALIDATE", dlt.CodeConfigMalformed,
			fmt.Sprintf("network.socket_type %q must be one of: unix, udpv4", cfg.Network.SocketType))
	}

	if cfg.Network.StorageServer.ServerAddress == "" {
		return dlt.New("CONFIG_VALIDATE", dlt.CodeConfigMalformed,
			"network.storage_server.server_address is required")
	}
	if cfg.Network.StorageServer.ServerPort <= 0 || cfg.Network.StorageServer.ServerPort > 65535 {
		return dlt.New("CONFIG_VALIDATE", dlt.CodeConfigMalformed,
			fmt.Sprintf("network.storage_server.server_port %d is out of range", cfg.Network.StorageServer.ServerPort))
	}

	return nil
}
