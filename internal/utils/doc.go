// Package utils provides small helpers shared across the application:
// safe integer conversions, reading link lists, parsing item index lists,
// clock formatting and the User-Agent provider.
package utils
