// Package config provides configuration parsing for kite.
//
// The configuration is stored in kite.json (or kite.yaml) at the project
// root. This package handles loading, saving, and validating configuration.
// Command-line flags override what the file sets.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "address": "localhost:3000",
//	    "shutdownTimeout": "10s",
//	    "allowedOrigins": ["https://example.com"]
//	  },
//	  "quotes": {
//	    "source": "s3",
//	    "s3": {"bucket": "quotes", "key": "quotes.json", "region": "us-east-1"},
//	    "latency": "300ms",
//	    "failEvery": 3
//	  },
//	  "app": {
//	    "refresh": "retry",
//	    "styles": "./styles.json"
//	  },
//	  "telemetry": {"namespace": "kite"},
//	  "log": {"level": "debug", "format": "json"}
//	}
//
// The same structure in YAML:
//
//	quotes:
//	  source: file
//	  file: ./quotes.json
//	app:
//	  refresh: stop
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Server.Address)
package config
