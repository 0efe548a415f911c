// Package turnover explores an employee turnover table.
//
// The pipeline runs in three stages:
//
//	loader  reads a delimited source into a table.Table
//	engine  computes summaries (describe, counts, pivot, correlation, bins)
//	        and turns them into TableData or ChartConfig
//	render  draws ChartConfig as PNG or SVG; report prints TableData
//
// A Plan lists the steps to run; engine.DefaultPlan reproduces the standard
// exploration of the turnover dataset. The turnover command wires the stages
// together with viper configuration and logrus logging.
package turnover
