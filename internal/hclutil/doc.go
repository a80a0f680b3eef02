// Package hclutil holds small helpers shared by the HCL loading code.
package hclutil
