package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError
	DBDropTableError

	// Schema errors
	SchemaCreateError
	SchemaParseModelError
	SchemaDefinitionError
	SchemaUnknownTableError
	SchemaCyclicDependencyError

	// Store errors
	StoreBeginError
	StoreInsertError
	StoreQueryError
	StoreDeleteError
	StoreCommitError
	StoreRollbackError

	// Seeder errors
	SeedInvalidAmountError
	SeedTemplateParseError
	SeedOverrideError
	SeedStoreError
	SeedConfirmationRequiredError
	SeedCyclicRelationError
	SeedMissingReferenceError
	SeedBatchError
	SeedAllTablesFailedError
	SeedCancelledError
)
