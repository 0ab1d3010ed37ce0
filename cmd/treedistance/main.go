/*
 * Copyright (C) 2024 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	_ "net/http/pprof"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/operational/health"
	"github.com/netobserv/treedistance/pkg/pipeline"
	"github.com/netobserv/treedistance/pkg/pipeline/utils"
	"github.com/netobserv/treedistance/pkg/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "TREEDISTANCE"
	defaultConfigName = ".treedistance"
)

var (
	buildVersion = "unknown"
	cfgFile      string
	logLevel     string
	opts         config.Options
)

var rootCmd = &cobra.Command{
	Use:          "treedistance",
	Short:        "Compare process trees with prototype trees while they are being monitored",
	Version:      buildVersion,
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
}

// initConfig reads the config file and TREEDISTANCE_* variables into the flags left unset.
func initConfig() {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(defaultConfigName)
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	cfgErr := v.ReadInConfig()

	bindFlags(rootCmd, v)
	initLogger()

	// a missing default file is fine, flags and environment may hold everything
	var notFound viper.ConfigFileNotFoundError
	if cfgErr != nil && !errors.As(cfgErr, &notFound) {
		log.Errorf("Read config error: %v", cfgErr)
	}
}

func initLogger() {
	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		ll = log.ErrorLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, PadLevelText: true, DisableQuote: true})
}

// bindFlags copies viper values into the flags. Dotted flags such as health.port are also
// bound to TREEDISTANCE_HEALTH_PORT. The pipeline and parameters sections of a yaml file are
// lists: they are handed to their flag as json.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if strings.Contains(f.Name, ".") {
			suffix := strings.ToUpper(strings.ReplaceAll(f.Name, ".", "_"))
			_ = v.BindEnv(f.Name, envPrefix+"_"+suffix)
		}
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		val := v.Get(f.Name)
		switch val.(type) {
		case []interface{}, map[string]interface{}:
			b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(val)
			if err != nil {
				log.Fatalf("can't convert %s to json: %v", f.Name, err)
			}
			_ = cmd.Flags().Set(f.Name, string(b))
		default:
			_ = cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
		}
	})
}

func initFlags() {
	cobra.OnInitialize(initConfig)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is $HOME/%s)", defaultConfigName))
	flags.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warning, error")
	flags.StringVar(&opts.Health.Address, "health.address", "0.0.0.0", "Health server address")
	flags.StringVar(&opts.Health.Port, "health.port", "8080", "Health server port")
	flags.IntVar(&opts.Profile.Port, "profile.port", 0, "Go pprof tool port (default: disabled)")
	flags.StringVar(&opts.PipeLine, "pipeline", "", "json of config file pipeline field")
	flags.StringVar(&opts.Parameters, "parameters", "", "json of config file parameters field")
	flags.StringVar(&opts.MetricsSettings, "metricsSettings", "", "json for global metrics settings")
}

func main() {
	initFlags()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func startProfiler(port int) {
	go func() {
		log.WithField("port", port).Info("starting PProf HTTP listener")
		log.WithError(http.ListenAndServe(fmt.Sprintf(":%d", port), nil)).
			Error("PProf HTTP listener stopped working")
	}()
}

// run builds the pipeline from the options and blocks until every stream has been compared
// or an exit signal arrives.
func run() error {
	log.Infof("starting treedistance %s", buildVersion)
	if log.IsLevelEnabled(log.DebugLevel) {
		dump, _ := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(&opts, "", "  ")
		log.Debugf("using configuration:\n%s", dump)
	}

	cfg, err := config.ParseConfig(&opts)
	if err != nil {
		return fmt.Errorf("parsing configuration: %w", err)
	}

	utils.SetupElegantExit()
	promServer := prometheus.InitializePrometheus(&cfg.MetricsSettings)
	defer func() {
		if promServer != nil {
			_ = promServer.Shutdown(context.Background())
		}
	}()

	p, err := pipeline.NewPipeline(&cfg)
	if err != nil {
		return fmt.Errorf("initializing pipeline: %w", err)
	}
	if opts.Profile.Port != 0 {
		startProfiler(opts.Profile.Port)
	}
	health.NewHealthServer(&opts, p.IsAlive, p.IsReady)

	p.Run()
	log.Debugf("pipeline done")
	return nil
}
