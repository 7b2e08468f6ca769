// Package oracle supplies charge records and permitted categories from
// sources other than the deterministic pipeline: a structured-JSON text
// generator used as a last-resort extraction tier, and local regex
// heuristics over lease text. Generator output is never trusted as-is;
// the adapter validates and repairs it before anything downstream sees it.
package oracle
