// Package dropzone provides the upload logic of a small file drop service:
// clients post a file with optional placement parameters and get back the URL
// path it is served under.
//
// # Key Components
//
//   - UploadService: validates placement parameters, picks a free name, stores
//     the file and records it in the upload index
//   - UploadRepo: interface for the upload index (PostgreSQL, SQLite)
//   - FileStorage: interface for file operations (see the filesystem package)
//
// # Placement rules
//
// A folder is at most 64 characters of [A-Za-z0-9_]. A file name is at most
// 64 characters of [A-Za-z0-9._-] and never contains "..". An empty name
// gets a random five character name that is not taken yet. A named upload
// whose target already exists fails with ErrAlreadyExists.
//
// # Example Usage
//
//	service, err := dropzone.NewUploadService(repo, storage, dropzone.ServiceConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	u, err := service.Upload(ctx, dropzone.UploadRequest{
//	    Folder: "screenshots",
//	    File:   &dropzone.FileData{Name: "shot.png", Data: data},
//	})
//	fmt.Println(u.URLPath()) // /screenshots/aZ3k9
//
// The router package holds the request dispatcher and the http package wires
// the service into routes.
package dropzone
