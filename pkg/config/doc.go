// Package config reads the flat key=value files dbkeeper is configured with.
//
// Both the project file (.db) and the per-user credentials file (~/.dbpass) use
// the same format:
//
//	# comments and blank lines are ignored
//	name=shop
//	database.dialect=mysql
//
// The first '=' splits the key from the value. Keys are grouped by their first
// '.'-delimited segment, so the credentials file can hold several projects, each
// with several environments:
//
//	shop.local.username=root
//	shop.local.password=secret
//	shop.local.database=shop
//	shop.local.hostname=localhost
//	shop.production.ssh.hostname=bastion.example.com
//	shop.production.readonly=ask
//
// Values.Sub("shop") yields the "local" and "production" groups, and each of
// those is turned into an environment.Environment.
package config
