package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/sagarc03/dropzone/router"
)

const defaultNotFoundHTML = `<html>
<head><title>404 Not Found</title></head>
<body>
<center><h1>404 Not Found</h1></center>
<hr><center>dropzone</center>
</body>
</html>`

// NotFoundPage ends a chain whose earlier entries did not answer.
func NotFoundPage() router.Middleware {
	return router.Handle(func(res *router.Response, _ *router.Request, _ router.Next) error {
		res.Header().Set("Content-Type", "text/html; charset=utf-8")
		res.Header().Set("Content-Length", strconv.Itoa(len(defaultNotFoundHTML)))
		res.WriteHeader(http.StatusNotFound)
		_, err := io.WriteString(res, defaultNotFoundHTML)
		return err
	})
}
