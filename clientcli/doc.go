// Package clientcli provides a client library for a dropzone upload server.
//
// It uploads files through the multipart /upload route, lists indexed
// uploads through /api/uploads and downloads stored files with plain GETs,
// authenticating with HTTP basic auth when credentials are configured. A
// YAML file of saved servers holds the settings for several servers.
//
// # Basic Usage
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:3000",
//		Username: "alice",
//		Password: "secret",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results, err := client.Upload(ctx, clientcli.UploadOptions{
//		LocalPath: "./shot.png",
//		Folder:    "shots",
//	})
//	fmt.Println(results[0].URL) // http://localhost:3000/shots/Xy3k9.png
//
// # Saved Servers
//
//	servers, err := clientcli.LoadServers(clientcli.DefaultServersPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	srv, _, err := servers.Lookup("") // the current server
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := srv.Config().Overlay(clientcli.EnvConfig())
//
// # Error Handling
//
// Non-success responses are returned as *APIError and match the sentinel
// errors by status code:
//
//	if errors.Is(err, clientcli.ErrConflict) {
//		// a file with that name already exists
//	}
package clientcli
