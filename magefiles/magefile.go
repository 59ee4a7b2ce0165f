//go:build mage

// Package main provides build targets for the tofico project using Mage.
//
// Usage:
//
//	mage build          Compile the tofico binary to bin/
//	mage test:all       Run all tests
//	mage test:unit      Run tests with -short
//	mage test:postgres  Run the postgres store tests (needs TOFICO_TEST_POSTGRES_DSN)
//	mage test:cover     Write a coverage profile to bin/coverage.out
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install tofico to GOPATH/bin
//	mage stats          Print Go lines of code
package main

const (
	binGo      = "go"
	binaryName = "tofico"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tofico"
	modulePath = "github.com/ficrammanifur/tofico-analyzer-backend"
)
