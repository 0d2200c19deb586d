package io

// InputReader defines the interface for reading records from an agency
// release file.
type InputReader interface {
	// Read extracts records from the file at filePath. Each record maps a
	// header cell (series code for ONS data) to the row's cell value.
	Read(filePath string) ([]map[string]interface{}, error)
}

// MetadataProvider is implemented by readers whose source carries a
// metadata block alongside the data (ONS exports). The records are only
// populated after a successful Read.
type MetadataProvider interface {
	MetadataRecords() []map[string]interface{}
}

// OutputWriter defines the interface for writing normalized records to a
// destination file.
type OutputWriter interface {
	// Write sends records to the file at filePath. Writers may buffer;
	// Close finalizes the output.
	Write(records []map[string]interface{}, filePath string) error

	// Close flushes buffers and releases any file handles. Implementations
	// are idempotent.
	Close() error
}
