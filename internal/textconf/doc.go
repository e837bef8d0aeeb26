// Package textconf parses the line-oriented imfit config format that
// model.Model renders:
//
//	GAIN    4.5
//	# FUNCTION_SET galaxy
//	X0    129     125,135
//	Y0    129.5   125,135
//	FUNCTION Sersic # bulge
//	PA    18      fixed
//	ell   0.2     0,0.8
//	n     4
//	I_e   15      0.1,1000
//	r_e   25
//
// Option lines come before the first X0. Each X0/Y0 pair opens a function
// set, each FUNCTION line opens a function, and the remaining lines are the
// function's parameters. Everything after '#' is a comment, except that the
// comment on a FUNCTION line names the function and a "# FUNCTION_SET name"
// line names the set that follows it.
package textconf
