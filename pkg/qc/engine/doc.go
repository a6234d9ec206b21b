// Package engine implements the QC rule evaluation engine.
//
// The engine classifies microbial sequencing samples against externally
// editable rule and test tables and derives a single operational action per
// sample. Evaluation proceeds in stages:
//
//  1. Rule matching filters the rule table down to the rules applicable to a
//     sample's species, assembly type, and allowed software.
//  2. Each applicable rule resolves its logical field name to a data column
//     through the field mapping and applies its comparison operator. Rules
//     whose resolved column is absent are skipped, recorded once in the
//     run-wide warning and skipped-rule sets.
//  3. The failed and passed rule-ID lists feed the configured tests (named
//     outcomes), each a boolean combination over the two lists.
//  4. The action attached to the highest-priority fired outcome becomes the
//     sample's qc_action.
//
// The engine is pure computation: it performs no I/O, never mutates the
// input sample rows or the reference tables, and absorbs per-rule defects
// (unknown operators, non-numeric values, missing fields) into FAIL or SKIP
// results plus diagnostics instead of aborting the run. Samples are
// independent of each other; only the run-wide Accumulator is shared, and it
// is safe for concurrent use.
package engine
