// Package taskfile builds named pipelines from declarative definitions,
// usually the "pipelines" section of start.yml:
//
//	pipelines:
//	  build:
//	    description: compile
//	    steps:
//	      - task: env
//	        with: {key: CGO_ENABLED, value: "0"}
//	      - task: exec
//	        with: {binary: go, args: [build, ./...]}
//	  ci:
//	    steps:
//	      - pipeline: lint
//	      - pipeline: build
//
// A "task" step is created by the Registry factory for its kind, from the
// "with" options. A "pipeline" step embeds another declared pipeline, whose
// named tasks report through the same Runner. The "watch" task kind reruns
// a declared pipeline for every batch of changed files:
//
//	dev:
//	  steps:
//	    - task: watch
//	      with: {patterns: ["src/**/*.js"], pipeline: compile}
package taskfile
