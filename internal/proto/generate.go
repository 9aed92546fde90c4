// Package proto holds the protobuf contracts shared by the userhub services.
// Generated code lives next to each .proto file.
package proto

//go:generate go run github.com/bufbuild/buf/cmd/buf@v1.50.0 generate
