// Package hcl loads registry manifests written in HCL into a
// registry.Snapshot. A manifest declares the application and its global
// options, the lineage of command types, and the commands with their own
// option declarations:
//
//	application "artisan" {
//	  option "quiet" {
//	    shortcut    = "q"
//	    description = "Do not output any message"
//	  }
//	}
//
//	type "DebugCommand" { parent = "Command" }
//
//	command "plesk-ext-laravel:debug" {
//	  type            = "DebugCommand"
//	  inherit_globals = true
//	}
//
// A command that inherits globals shares the application's option
// instances; an option block inside a command always declares a new one.
package hcl
