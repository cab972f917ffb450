// Package handler turns typed request handlers into http.HandlerFunc values.
//
// A handler receives a Context and a request struct filled by one or more
// binders, and returns a Response that renders itself:
//
//	h := handler.HandlerFunc[handler.Context, CallbackRequest](
//		func(ctx handler.Context, req CallbackRequest) handler.Response {
//			return handler.JSON(view)
//		},
//	)
//	r.Get("/callback", handler.Wrap(h, handler.WithBinders[handler.Context, CallbackRequest](binder.Query())))
//
// Errors from binders and renderers go to the configured ErrorHandler. The
// default one writes a plain text error, NewErrorHandler writes a JSON body
// and logs the failure.
package handler
