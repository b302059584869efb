// Package utils provides common utility functions used throughout the dbkeeper codebase.
//
// # Identifier Utilities (identifier.go)
//
// The identifier utilities provide consistent handling of SQL identifiers: MySQL
// backtick quoting for generated statements, and the reverse operation used when
// table names are read back out of a create script.
//
//	// Quote for MySQL
//	name := utils.BacktickIdentifier("shop.accounts")
//	// Result: `shop`.`accounts`
//
//	// Read a name from DDL
//	table := utils.UnqualifiedName(`"public"."orders"`)
//	// Result: orders
package utils
