// Package utils provides small conversion helpers shared across features.
package utils
