package models

// TypeMetadata maps a cache key/value pair onto database columns.
type TypeMetadata struct {
	// DatabaseSchema is the schema of the backing table (optional)
	DatabaseSchema string `json:"databaseSchema,omitempty" yaml:"databaseSchema"`

	// DatabaseTable is the backing table name
	DatabaseTable string `json:"databaseTable,omitempty" yaml:"databaseTable"`

	// KeyType is the fully qualified key class name (e.g., "org.example.PersonKey")
	KeyType string `json:"keyType" yaml:"keyType"`

	// ValueType is the fully qualified value class name (e.g., "org.example.Person")
	ValueType string `json:"valueType" yaml:"valueType"`

	// KeyFields are the key class fields; empty for builtin key types
	KeyFields []Field `json:"keyFields,omitempty" yaml:"keyFields"`

	// ValueFields are the value class fields
	ValueFields []Field `json:"valueFields,omitempty" yaml:"valueFields"`
}

// Field is a single Java field mapped to a database column.
type Field struct {
	// JavaName is the field name in the generated class
	JavaName string `json:"javaName" yaml:"javaName"`

	// JavaType is the fully qualified or primitive Java type
	JavaType string `json:"javaType" yaml:"javaType"`

	// DatabaseName is the column name
	DatabaseName string `json:"databaseName,omitempty" yaml:"databaseName"`

	// DatabaseType is the java.sql.Types name of the column (e.g., "VARCHAR")
	DatabaseType string `json:"databaseType,omitempty" yaml:"databaseType"`
}

// PojoMetadata carries the generated source of one key/value class pair.
type PojoMetadata struct {
	// KeyType is the fully qualified key class name
	KeyType string `json:"keyType"`

	// KeyClass is the key class source; empty when the key type is builtin
	KeyClass string `json:"keyClass,omitempty"`

	// ValueType is the fully qualified value class name
	ValueType string `json:"valueType"`

	// ValueClass is the value class source
	ValueClass string `json:"valueClass"`
}
