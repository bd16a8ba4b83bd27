package statuslog

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws/session"
	ddbv1 "github.com/aws/aws-sdk-go/service/dynamodb"

	"github.com/ipfs/go-datastore"
	badger4 "github.com/ipfs/go-ds-badger4"
	ddbds "github.com/ipfs/go-ds-dynamodb"
)

// NewDatastore constructs the backing datastore for the status log.
//
// Supported database types:
//   - badger <db-path>
//   - dynamo <table-name>
func NewDatastore(databaseType, arg string) (datastore.Datastore, error) {
	switch databaseType {
	case "badger":
		if arg == "" {
			return nil, fmt.Errorf("need to pass a path for the Badger configuration")
		}
		return badger4.NewDatastore(arg, nil)
	case "dynamo":
		if arg == "" {
			return nil, fmt.Errorf("need to pass a table name for the DynamoDB configuration")
		}
		ddbClient := ddbv1.New(session.Must(session.NewSession()))
		return ddbds.New(ddbClient, arg), nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", databaseType)
	}
}
