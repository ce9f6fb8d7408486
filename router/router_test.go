package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sagarc03/dropzone/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func serve(t *testing.T, tbl *router.Table, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.New(tbl).ServeHTTP(rec, req)
	return rec
}

// record returns a middleware that appends name to calls and then calls next.
func record(calls *[]string, name string) router.Middleware {
	return router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
		*calls = append(*calls, name)
		next(nil)
		return nil
	})
}

func reportError(got *error) router.Middleware {
	return router.HandleError(func(err error, res *router.Response, req *router.Request, next router.Next) error {
		*got = err
		res.Text(http.StatusInternalServerError, "failed: "+err.Error())
		return nil
	})
}

func TestRouter_LongestPrefixWins(t *testing.T) {
	var hit string
	var path string
	handler := func(name string) router.Middleware {
		return router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
			hit = name
			path = req.Path
			return nil
		})
	}

	tbl := router.NewTable().
		Get("/", handler("root")).
		Get("/upload", handler("upload")).
		Get("/upload/sub", handler("sub"))

	tests := []struct {
		target   string
		wantHit  string
		wantPath string
	}{
		{"/upload/sub/file.txt", "sub", "/file.txt"},
		{"/upload/file.txt", "upload", "/file.txt"},
		{"/upload", "upload", "/"},
		{"/upload/", "upload", "/"},
		{"/uploads/file.txt", "root", "/uploads/file.txt"},
		{"/other", "root", "/other"},
		{"/", "root", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			hit, path = "", ""
			rec := serve(t, tbl, http.MethodGet, tt.target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantHit, hit)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestRouter_PathNarrowing(t *testing.T) {
	var path, original string
	tbl := router.NewTable().Get("/upload", router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
		path = req.Path
		original = req.OriginalPath()
		return nil
	}))

	serve(t, tbl, http.MethodGet, "/upload/sub/file.txt")

	assert.Equal(t, "/sub/file.txt", path)
	assert.Equal(t, "/upload/sub/file.txt", original)
}

func TestRouter_QueryIgnoredForMatching(t *testing.T) {
	var path, query string
	tbl := router.NewTable().Get("/upload", router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
		path = req.Path
		query = req.HTTP().URL.RawQuery
		return nil
	}))

	rec := serve(t, tbl, http.MethodGet, "/upload?folder=x")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/", path)
	assert.Equal(t, "folder=x", query)
}

func TestRouter_NotFound(t *testing.T) {
	called := false
	tbl := router.NewTable().Get("/upload", router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
		called = true
		return nil
	}))

	t.Run("unregistered method", func(t *testing.T) {
		rec := serve(t, tbl, http.MethodPost, "/upload")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Route not found", rec.Body.String())
	})

	t.Run("no matching prefix", func(t *testing.T) {
		rec := serve(t, tbl, http.MethodGet, "/missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Route not found", rec.Body.String())
	})

	t.Run("unsupported method", func(t *testing.T) {
		rec := serve(t, tbl, http.MethodDelete, "/upload")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	assert.False(t, called)
}

func TestRouter_EmptyChainIsNotFound(t *testing.T) {
	tbl := router.NewTable().Get("/upload", router.Middleware{}, router.Middleware{})

	rec := serve(t, tbl, http.MethodGet, "/upload")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AllHandlersCallNext(t *testing.T) {
	var calls []string
	tbl := router.NewTable().Get("/",
		record(&calls, "a"),
		record(&calls, "b"),
		record(&calls, "c"),
	)

	rec := serve(t, tbl, http.MethodGet, "/")

	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestRouter_AbsentEntriesAreDropped(t *testing.T) {
	var calls []string
	tbl := router.NewTable().Get("/",
		router.Middleware{},
		record(&calls, "a"),
		router.Handle(nil),
		router.HandleError(nil),
		record(&calls, "b"),
	)

	serve(t, tbl, http.MethodGet, "/")

	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestRouter_HandlerWithoutNextStopsChain(t *testing.T) {
	var calls []string
	tbl := router.NewTable().Get("/",
		record(&calls, "a"),
		router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
			calls = append(calls, "stop")
			return nil
		}),
		record(&calls, "never"),
	)

	rec := serve(t, tbl, http.MethodGet, "/")

	assert.Equal(t, []string{"a", "stop"}, calls)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ErrorRoutedToTrailingHandler(t *testing.T) {
	tests := []struct {
		name    string
		failing router.Middleware
		check   func(t *testing.T, err error)
	}{
		{
			name: "next with error",
			failing: router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
				next(errBoom)
				return nil
			}),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errBoom)
			},
		},
		{
			name: "returned error",
			failing: router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
				return errBoom
			}),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errBoom)
			},
		},
		{
			name: "panic with value",
			failing: router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
				panic("kaboom")
			}),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, router.ErrPanic)
				assert.Contains(t, err.Error(), "kaboom")
			},
		},
		{
			name: "panic with error",
			failing: router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
				panic(errBoom)
			}),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, router.ErrPanic)
				assert.ErrorIs(t, err, errBoom)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			var got error
			tbl := router.NewTable().Get("/",
				record(&calls, "before"),
				tt.failing,
				record(&calls, "after"),
				reportError(&got),
			)

			rec := serve(t, tbl, http.MethodGet, "/")

			assert.Equal(t, []string{"before"}, calls)
			require.Error(t, got)
			tt.check(t, got)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), "failed: ")
		})
	}
}

func TestRouter_ErrorHandlerNextFinalizes(t *testing.T) {
	tbl := router.NewTable().Get("/",
		router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
			return errBoom
		}),
		router.HandleError(func(err error, res *router.Response, req *router.Request, next router.Next) error {
			res.SetStatus(http.StatusTeapot)
			next(nil)
			assert.True(t, res.Finalized())
			return nil
		}),
	)

	rec := serve(t, tbl, http.MethodGet, "/")

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRouter_ErrorWithoutTrailingHandler(t *testing.T) {
	t.Run("status defaults to 500", func(t *testing.T) {
		var got error
		var calls []string
		tbl := router.NewTable().Get("/",
			router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
				return errBoom
			}),
			reportError(&got),
			record(&calls, "last"),
		)

		rec := serve(t, tbl, http.MethodGet, "/")

		assert.NoError(t, got, "error handler that is not last must not run")
		assert.Empty(t, calls)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("explicit status kept", func(t *testing.T) {
		tbl := router.NewTable().Get("/",
			router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
				res.SetStatus(http.StatusBadRequest)
				next(errBoom)
				return nil
			}),
		)

		rec := serve(t, tbl, http.MethodGet, "/")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_AdvanceIntoErrorHandlerStops(t *testing.T) {
	var calls []string
	var got error
	tbl := router.NewTable().Get("/",
		record(&calls, "a"),
		reportError(&got),
		record(&calls, "b"),
	)

	rec := serve(t, tbl, http.MethodGet, "/")

	assert.Equal(t, []string{"a"}, calls)
	assert.NoError(t, got)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LateAndRepeatedNextIgnored(t *testing.T) {
	var calls []string
	var saved router.Next
	tbl := router.NewTable().Get("/",
		router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
			next(nil)
			next(nil)
			return nil
		}),
		router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
			calls = append(calls, "second")
			saved = next
			return nil
		}),
		record(&calls, "third"),
	)

	serve(t, tbl, http.MethodGet, "/")
	require.NotNil(t, saved)
	saved(nil)

	assert.Equal(t, []string{"second"}, calls)
}

func TestRouter_FirstRegisteredWinsTie(t *testing.T) {
	var hit string
	handler := func(name string) router.Middleware {
		return router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
			hit = name
			return nil
		})
	}

	tbl := router.NewTable().
		Get("/upload", handler("first")).
		Get("/upload/", handler("second"))

	serve(t, tbl, http.MethodGet, "/upload/file.txt")
	assert.Equal(t, "first", hit)

	// Re-registration replaces the chain but keeps the slot.
	tbl.Get("/upload", handler("replaced"))
	serve(t, tbl, http.MethodGet, "/upload/file.txt")
	assert.Equal(t, "replaced", hit)
}

func TestRouter_FrozenAfterNew(t *testing.T) {
	tbl := router.NewTable().Get("/upload", router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
		return nil
	}))
	rt := router.New(tbl)

	tbl.Get("/api", router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
		return nil
	}))

	_, ok := rt.Match(http.MethodGet, "/api/uploads")
	assert.False(t, ok)

	prefix, ok := rt.Match(http.MethodGet, "/upload/x")
	assert.True(t, ok)
	assert.Equal(t, "/upload", prefix)
}

func TestTable_RegisterUnsupportedMethod(t *testing.T) {
	tbl := router.NewTable()

	err := tbl.Register(http.MethodPut, "/upload", router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
		return nil
	}))

	assert.ErrorIs(t, err, router.ErrUnsupportedMethod)
}

func TestRouter_ErrorHandlerPanic(t *testing.T) {
	tbl := router.NewTable().Get("/",
		router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
			return errBoom
		}),
		router.HandleError(func(err error, res *router.Response, req *router.Request, next router.Next) error {
			panic("handler broke")
		}),
	)

	rec := serve(t, tbl, http.MethodGet, "/")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
