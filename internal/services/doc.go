// Package services defines the error taxonomy shared by wrappers around
// external tools.
package services
