// Package server serves Brook pages over HTTP with chi routing.
//
// A page is a function from request to render tree plus context. The
// server streams each page through the chunk scheduler, flushing every
// chunk so the browser paints the head and early body before rendering
// finishes. Failures before the Header chunk fall back to a 500 page;
// failures after it abort the connection, because a truncated document
// must never look complete.
//
//	srv := server.New(nil)
//	srv.Use(middleware.Metrics(), middleware.Tracing())
//	srv.Page("/", func(r *http.Request) (*vdom.VNode, render.Context, error) {
//	    return home(), render.Context{Meta: render.PageMeta{Title: "Home"}}, nil
//	})
//	srv.Start(ctx)
package server
