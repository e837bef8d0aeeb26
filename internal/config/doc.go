// Package config selects a model loader by file extension. The text config
// loader handles ".conf", ".dat" and ".txt" files and anything with an
// unregistered extension; the HCL loader handles ".hcl".
package config
