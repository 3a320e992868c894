// Package config loads vnative.yaml, the settings shared by the vnative
// commands.
//
//	log:
//	  level: debug
//	  format: json
//	metrics:
//	  namespace: vnative
//	tracing:
//	  tracer: vnative
//	reconciler:
//	  rebuild_on_drift: true
//	inspector:
//	  addr: localhost:7070
//	  history: 64
//	term:
//	  width: 100
//	  theme: theme.toml
//
// Every key is optional. A missing file yields the defaults.
package config
