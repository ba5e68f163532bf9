package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const collectionListURI = "collections://list"

// CollectionListEntry is one collection in the list resource payload.
type CollectionListEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerKind string `json:"owner_kind"`
	Role      string `json:"role"`
}

// CollectionListPayload is the collections://list resource body.
type CollectionListPayload struct {
	Collections []CollectionListEntry `json:"collections"`
}

func registerCollectionResources(server *mcp.Server, listings ListingBrowser, resolve resolveUser) {
	server.AddResource(&mcp.Resource{
		Name:        "collection_list",
		Title:       "Accessible Collections",
		Description: "Collections the configured user owns or was granted access to",
		MIMEType:    "application/json",
		URI:         collectionListURI,
	}, collectionListHandler(listings, resolve))
}

func collectionListHandler(listings ListingBrowser, resolve resolveUser) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		userID, err := resolve("")
		if err != nil {
			return nil, err
		}
		accessible, err := listings.ListAccessibleCollections(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("collection list failed: %w", err)
		}

		payload := CollectionListPayload{}
		for _, entry := range accessible {
			payload.Collections = append(payload.Collections, CollectionListEntry{
				ID:        entry.Collection.ID,
				Name:      entry.Collection.Name,
				OwnerKind: string(entry.Collection.OwnerKind),
				Role:      entry.Role.String(),
			})
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal collection list: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      collectionListURI,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
