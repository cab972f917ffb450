// Package binder fills request structs from HTTP request data.
package binder
