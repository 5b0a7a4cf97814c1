// FILE: spicex/example/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/spf13/pflag"

	"github.com/myself659/spicex"
)

// AppConfig defines a richer configuration structure to showcase layering.
type AppConfig struct {
	Server struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"server"`
	FeatureFlags map[string]bool `mapstructure:"feature_flags"`
}

const configFilePath = "config.yaml"

func main() {
	log.Println("---")
	log.Println("PART 1: Creating initial configuration file...")

	defer func() {
		log.Println("---")
		log.Println("Cleaning up...")
		os.Remove(configFilePath)
		os.Unsetenv("APP_SERVER_PORT")
	}()

	defaults := AppConfig{}
	defaults.Server.Host = "localhost"
	defaults.Server.Port = 8080
	defaults.Server.LogLevel = "info"
	defaults.FeatureFlags = map[string]bool{"enable_metrics": true}

	if err := createInitialConfigFile(&defaults); err != nil {
		log.Fatalf("initial file creation failed: %v", err)
	}
	log.Printf("Initial configuration saved to %s.", configFilePath)

	log.Println("---")
	log.Println("PART 2: Assembling the layer stack with the Builder...")

	// Environment variables outrank the file.
	os.Setenv("APP_SERVER_PORT", "8888")
	log.Println("   (set APP_SERVER_PORT=8888)")

	// Flags outrank the environment.
	flags := pflag.NewFlagSet("example", pflag.ContinueOnError)
	flags.String("server.log_level", "info", "minimum log level")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("flag parsing failed: %v", err)
	}

	validator := func(c *spicex.Config) error {
		port, err := c.GetInt("server.port")
		if err != nil {
			return err
		}
		if port < 1024 || port > 65535 {
			return fmt.Errorf("port %d is outside the recommended range (1024-65535)", port)
		}
		return nil
	}

	cfg, err := spicex.NewBuilder().
		WithDefaults(&defaults).
		WithFile(configFilePath).
		WithEnvPrefix("APP").
		WithFlags(flags).
		WithValidator(validator).
		Build()
	if err != nil {
		log.Fatalf("builder failed: %v", err)
	}

	var state AppConfig
	if err := cfg.Unmarshal(&state); err != nil {
		log.Fatalf("unmarshal failed: %v", err)
	}
	log.Println("Builder finished. Initial values loaded.")
	printCurrentState(&state, "Initial State (Env overrides File)")

	log.Println("---")
	log.Println("PART 3: Hot reload...")

	changed := make(chan spicex.ChangeEvent, 1)
	cfg.OnConfigChange(func(ev spicex.ChangeEvent) {
		select {
		case changed <- ev:
		default:
		}
	})
	cfg.OnReloadError(func(err error) {
		log.Printf("reload error: %v", err)
	})
	if err := cfg.WatchConfigWithOptions(spicex.WatchOptions{Debounce: 100 * time.Millisecond}); err != nil {
		log.Fatalf("watch failed: %v", err)
	}
	defer cfg.StopWatching()
	log.Println("Watcher is active.")

	var wg sync.WaitGroup
	wg.Add(1)
	go modifyFileOnDisk(&wg)
	log.Println("   (modifier goroutine will change the file in 1 second)")

	select {
	case ev := <-changed:
		log.Printf("Watcher reloaded %s", ev.Source)

		var updated AppConfig
		if err := cfg.Unmarshal(&updated); err != nil {
			log.Fatalf("unmarshal after reload failed: %v", err)
		}
		if updated.Server.LogLevel != "debug" {
			log.Fatalf("expected log_level %q, got %q", "debug", updated.Server.LogLevel)
		}
		log.Println("In-memory configuration was updated by the watcher.")
		printCurrentState(&updated, "Final State (Updated by Watcher)")

	case <-time.After(5 * time.Second):
		log.Fatalf("timed out waiting for a reload")
	}

	wg.Wait()
}

// createInitialConfigFile writes the starting state to disk.
func createInitialConfigFile(data *AppConfig) error {
	cfg := spicex.New()
	if err := cfg.SetStructDefaults("", data); err != nil {
		return err
	}
	return cfg.WriteConfigAs(configFilePath)
}

// modifyFileOnDisk simulates an external program changing the config file.
func modifyFileOnDisk(wg *sync.WaitGroup) {
	defer wg.Done()
	time.Sleep(1 * time.Second)
	log.Println("   (modifier goroutine: changing file on disk)")

	layer, err := spicex.NewFileLayer(configFilePath)
	if err != nil {
		log.Fatalf("modifier failed to load file: %v", err)
	}
	modifier := spicex.New()
	modifier.AddLayer(layer)

	if err := modifier.Set("server.log_level", "debug"); err != nil {
		log.Fatalf("modifier failed to set value: %v", err)
	}
	if err := modifier.Set("feature_flags.enable_tracing", false); err != nil {
		log.Fatalf("modifier failed to set value: %v", err)
	}
	if err := modifier.WriteConfigAs(configFilePath); err != nil {
		log.Fatalf("modifier failed to save file: %v", err)
	}
	log.Println("   (modifier goroutine: finished)")
}

// printCurrentState displays the typed config state.
func printCurrentState(cfg *AppConfig, title string) {
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("             %s\n", title)
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("     Server Host:      %s\n", cfg.Server.Host)
	fmt.Printf("     Server Port:      %d\n", cfg.Server.Port)
	fmt.Printf("     Server Log Level: %s\n", cfg.Server.LogLevel)
	fmt.Printf("     Feature Flags:    %v\n", cfg.FeatureFlags)
	fmt.Println("   --------------------------------------------------")
}
