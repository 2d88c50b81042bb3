// Package tasks provides ready-made named steps for build pipelines.
//
// Tasks pass values along the pipeline with the following conventions:
//
//	Files  -> []string   matched paths
//	Clean  []string -> []string   removes the paths, passes them on
//	Read   []string -> []File
//	Write  []File -> []string   written paths
//	Input  any -> value
//	Env, Exec   pass the input through unchanged
//
// Watch runs another pipeline every time matching files change.
package tasks
