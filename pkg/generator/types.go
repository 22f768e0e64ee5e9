package generator

import "strings"

var primitives = map[string]string{
	"boolean": "Boolean",
	"byte":    "Byte",
	"short":   "Short",
	"int":     "Integer",
	"long":    "Long",
	"float":   "Float",
	"double":  "Double",
	"char":    "Character",
}

// sqlTypes is the set of java.sql.Types constants accepted in field mappings.
var sqlTypes = map[string]bool{
	"BIGINT": true, "BINARY": true, "BIT": true, "BLOB": true, "BOOLEAN": true,
	"CHAR": true, "CLOB": true, "DATE": true, "DECIMAL": true, "DOUBLE": true,
	"FLOAT": true, "INTEGER": true, "LONGNVARCHAR": true, "LONGVARBINARY": true,
	"LONGVARCHAR": true, "NCHAR": true, "NUMERIC": true, "NVARCHAR": true,
	"OTHER": true, "REAL": true, "SMALLINT": true, "TIME": true, "TIMESTAMP": true,
	"TINYINT": true, "VARBINARY": true, "VARCHAR": true,
}

func isPrimitive(javaType string) bool {
	_, ok := primitives[javaType]
	return ok
}

func boxed(javaType string) string {
	if b, ok := primitives[javaType]; ok {
		return b
	}
	return javaType
}

// isBuiltin reports whether a key type needs no generated class.
func isBuiltin(javaType string) bool {
	return isPrimitive(javaType) || strings.HasPrefix(javaType, "java.")
}

func javaClassLiteral(javaType string) string {
	return javaType + ".class"
}

func sqlType(name string) string {
	upper := strings.ToUpper(name)
	if !sqlTypes[upper] {
		upper = "OTHER"
	}
	return upper
}

// dialect describes a supported database.
type dialect struct {
	// Class is the store dialect class.
	Class string
	// DataSource is the JDBC data source class.
	DataSource string
	// Driver is the Maven coordinate of the JDBC driver, empty when the
	// driver is proprietary and must be copied into jdbc-drivers/.
	Driver *mavenDependency
}

type mavenDependency struct {
	GroupID    string
	ArtifactID string
	Version    string
}

const dialectPackage = "org.apache.ignite.cache.store.jdbc.dialect."

var dialects = map[string]dialect{
	"Oracle": {
		Class:      dialectPackage + "OracleDialect",
		DataSource: "oracle.jdbc.pool.OracleDataSource",
	},
	"DB2": {
		Class:      dialectPackage + "DB2Dialect",
		DataSource: "com.ibm.db2.jcc.DB2DataSource",
	},
	"SQLServer": {
		Class:      dialectPackage + "SQLServerDialect",
		DataSource: "com.microsoft.sqlserver.jdbc.SQLServerDataSource",
	},
	"MySQL": {
		Class:      dialectPackage + "MySQLDialect",
		DataSource: "com.mysql.jdbc.jdbc2.optional.MysqlDataSource",
		Driver:     &mavenDependency{GroupID: "mysql", ArtifactID: "mysql-connector-java", Version: "5.1.37"},
	},
	"PostgreSQL": {
		Class:      dialectPackage + "BasicJdbcDialect",
		DataSource: "org.postgresql.ds.PGPoolingDataSource",
		Driver:     &mavenDependency{GroupID: "org.postgresql", ArtifactID: "postgresql", Version: "9.4-1204-jdbc42"},
	},
	"H2": {
		Class:      dialectPackage + "H2Dialect",
		DataSource: "org.h2.jdbcx.JdbcDataSource",
		Driver:     &mavenDependency{GroupID: "com.h2database", ArtifactID: "h2", Version: "1.4.191"},
	},
}

var storeFactoryClasses = map[string]string{
	"CacheJdbcPojoStoreFactory":      "org.apache.ignite.cache.store.jdbc.CacheJdbcPojoStoreFactory",
	"CacheJdbcBlobStoreFactory":      "org.apache.ignite.cache.store.jdbc.CacheJdbcBlobStoreFactory",
	"CacheHibernateBlobStoreFactory": "org.apache.ignite.cache.store.hibernate.CacheHibernateBlobStoreFactory",
}

var evictionPolicies = map[string]string{
	"LRU":    "org.apache.ignite.cache.eviction.lru.LruEvictionPolicy",
	"FIFO":   "org.apache.ignite.cache.eviction.fifo.FifoEvictionPolicy",
	"SORTED": "org.apache.ignite.cache.eviction.sorted.SortedEvictionPolicy",
}
