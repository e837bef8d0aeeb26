// Package catalog holds the known image function types and the ordered
// parameters each one takes, declared as HCL manifests:
//
//	function "Gaussian" {
//	  description = "..."
//	  parameter "PA"    { default = 0 }
//	  parameter "ell"   { default = 0 }
//	  parameter "I_0"   { default = 1 }
//	  parameter "sigma" { default = 1 }
//	}
//
// The built-in manifests are embedded in the binary. Additional manifests
// can be loaded from directories.
package catalog
