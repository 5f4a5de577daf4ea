package size

// CellCountInt is the integer type used to count cells, rows and columns.
// Screens are small so this never needs to be larger than int, but keeping
// a dedicated type makes coordinate arithmetic explicit at call sites.
type CellCountInt int
