package dungeonserver

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// File_dungeon_v1_dungeon_proto is api/proto/dungeon/v1/dungeon.proto,
// registered in protoregistry.GlobalFiles under ServiceDesc.Metadata.
var File_dungeon_v1_dungeon_proto protoreflect.FileDescriptor

func init() {
	fd, err := buildFileDescriptor()
	if err != nil {
		panic(fmt.Sprintf("dungeonserver: building %s: %v", protoMetadataPath, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("dungeonserver: registering %s: %v", protoMetadataPath, err))
	}
	File_dungeon_v1_dungeon_proto = fd
}

func buildFileDescriptor() (protoreflect.FileDescriptor, error) {
	structFile := structpb.File_google_protobuf_struct_proto.Path()
	wrappersFile := wrapperspb.File_google_protobuf_wrappers_proto.Path()
	structMsg := "." + string((&structpb.Struct{}).ProtoReflect().Descriptor().FullName())
	uint64Msg := "." + string((&wrapperspb.UInt64Value{}).ProtoReflect().Descriptor().FullName())
	stringMsg := "." + string((&wrapperspb.StringValue{}).ProtoReflect().Descriptor().FullName())

	fdp := &descriptorpb.FileDescriptorProto{
		Name:       proto.String(protoMetadataPath),
		Package:    proto.String("dungeon.v1"),
		Syntax:     proto.String("proto3"),
		Dependency: []string{structFile, wrappersFile},
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/cory-johannsen/dungeongen/internal/dungeonserver"),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("DungeonService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				{Name: proto.String("Generate"), InputType: proto.String(uint64Msg), OutputType: proto.String(structMsg)},
				{Name: proto.String("GetLayout"), InputType: proto.String(stringMsg), OutputType: proto.String(structMsg)},
			},
		}},
	}
	return protodesc.NewFile(fdp, protoregistry.GlobalFiles)
}
