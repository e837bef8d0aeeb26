// Package hcl reads and writes models in HCL:
//
//	options {
//	  GAIN = 4.5
//	}
//
//	function_set "bulge" {
//	  x0 { value = 40  limits = [35, 45] }
//	  y0 { value = 41  fixed = true }
//
//	  function "Sersic" {
//	    name = "core"
//	    parameter "PA" { value = 10  limits = [0, 90] }
//	  }
//	}
//
// Unlike the text config format, a parameter may carry limits and be fixed
// at the same time. A function without a name attribute is named after its
// type.
package hcl
