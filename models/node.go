// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// NodeType is the discriminator carried by every serialized [Node].
type NodeType string

const (
	NodeTypeFolder NodeType = "folder"
	NodeTypeFile   NodeType = "file"
)

// ErrUnknownNodeType is returned when a serialized node carries a type
// discriminator other than "folder" or "file".
var ErrUnknownNodeType = errors.New("unknown node type")

// Node is a single entry of a directory-tree snapshot.
//
// The set of implementations is closed: *Folder and *File. Code that needs
// variant-specific behavior switches on the concrete type.
type Node interface {
	NodeType() NodeType
	NodeName() string
	NodeHash() string
	// Clone returns a deep copy of the node and its descendants.
	Clone() Node

	sealed()
}

// Folder is a directory node.
//
// Children == nil means the children are absent (not transmitted), while a
// non-nil empty slice means the folder is known to be empty.
type Folder struct {
	Name        string
	ContentHash string
	Children    []Node
}

// File is a leaf node. Size, LastModified and Content are optional on the wire.
type File struct {
	Name         string
	ContentHash  string
	Size         *int64
	LastModified *time.Time
	// Content is an opaque base64 payload carried through unchanged.
	Content *string
}

func (f *Folder) NodeType() NodeType { return NodeTypeFolder }
func (f *Folder) NodeName() string   { return f.Name }
func (f *Folder) NodeHash() string   { return f.ContentHash }
func (f *Folder) sealed()            {}

func (f *File) NodeType() NodeType { return NodeTypeFile }
func (f *File) NodeName() string   { return f.Name }
func (f *File) NodeHash() string   { return f.ContentHash }
func (f *File) sealed()            {}

// Clone implements [Node].
func (f *Folder) Clone() Node {
	return f.CloneFolder()
}

// CloneFolder is the typed variant of Clone.
func (f *Folder) CloneFolder() *Folder {
	if f == nil {
		return nil
	}

	clone := &Folder{Name: f.Name, ContentHash: f.ContentHash}
	if f.Children != nil {
		clone.Children = make([]Node, 0, len(f.Children))
		for _, child := range f.Children {
			clone.Children = append(clone.Children, child.Clone())
		}
	}

	return clone
}

// Clone implements [Node].
func (f *File) Clone() Node {
	if f == nil {
		return (*File)(nil)
	}

	clone := &File{Name: f.Name, ContentHash: f.ContentHash}
	if f.Size != nil {
		size := *f.Size
		clone.Size = &size
	}
	if f.LastModified != nil {
		lastModified := *f.LastModified
		clone.LastModified = &lastModified
	}
	if f.Content != nil {
		content := *f.Content
		clone.Content = &content
	}

	return clone
}

// Child returns the index and value of the direct child named name,
// or -1 and nil when there is none.
func (f *Folder) Child(name string) (int, Node) {
	for i, child := range f.Children {
		if child.NodeName() == name {
			return i, child
		}
	}

	return -1, nil
}

// NewFolder returns a folder with a present, empty children list.
func NewFolder(name, contentHash string, children ...Node) *Folder {
	if children == nil {
		children = []Node{}
	}
	return &Folder{Name: name, ContentHash: contentHash, Children: children}
}

// NewFile returns a file with size and modification time set.
func NewFile(name, contentHash string, size int64, lastModified time.Time) *File {
	return &File{Name: name, ContentHash: contentHash, Size: &size, LastModified: &lastModified}
}

// nodeJSON is the wire form shared by both variants.
type nodeJSON struct {
	Type         NodeType           `json:"type"`
	Name         string             `json:"name"`
	ContentHash  string             `json:"contentHash"`
	Children     *[]json.RawMessage `json:"children,omitempty"`
	Size         *int64             `json:"size,omitempty"`
	LastModified *time.Time         `json:"lastModified,omitempty"`
	Content      *string            `json:"content,omitempty"`
}

// MarshalJSON implements [json.Marshaler].
func (f *Folder) MarshalJSON() ([]byte, error) {
	out := nodeJSON{Type: NodeTypeFolder, Name: f.Name, ContentHash: f.ContentHash}

	if f.Children != nil {
		children := make([]json.RawMessage, 0, len(f.Children))
		for _, child := range f.Children {
			raw, err := json.Marshal(child)
			if err != nil {
				return nil, fmt.Errorf("error marshaling child %q of folder %q: %w", child.NodeName(), f.Name, err)
			}
			children = append(children, raw)
		}
		out.Children = &children
	}

	return json.Marshal(out)
}

// MarshalJSON implements [json.Marshaler].
func (f *File) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{
		Type:         NodeTypeFile,
		Name:         f.Name,
		ContentHash:  f.ContentHash,
		Size:         f.Size,
		LastModified: f.LastModified,
		Content:      f.Content,
	})
}

// UnmarshalJSON implements [json.Unmarshaler]. A missing type is accepted
// and treated as a folder so that bare snapshot roots decode.
func (f *Folder) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Type != "" && in.Type != NodeTypeFolder {
		return fmt.Errorf("%w: expected folder, got %q", ErrUnknownNodeType, in.Type)
	}

	folder, err := folderFromJSON(in)
	if err != nil {
		return err
	}

	*f = *folder
	return nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (f *File) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Type != "" && in.Type != NodeTypeFile {
		return fmt.Errorf("%w: expected file, got %q", ErrUnknownNodeType, in.Type)
	}

	*f = File{
		Name:         in.Name,
		ContentHash:  in.ContentHash,
		Size:         in.Size,
		LastModified: in.LastModified,
		Content:      in.Content,
	}
	return nil
}

// UnmarshalNode decodes a serialized node using its type discriminator.
func UnmarshalNode(data []byte) (Node, error) {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}

	return nodeFromJSON(in)
}

func nodeFromJSON(in nodeJSON) (Node, error) {
	switch in.Type {
	case NodeTypeFolder:
		return folderFromJSON(in)
	case NodeTypeFile:
		return &File{
			Name:         in.Name,
			ContentHash:  in.ContentHash,
			Size:         in.Size,
			LastModified: in.LastModified,
			Content:      in.Content,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q (node %q)", ErrUnknownNodeType, in.Type, in.Name)
	}
}

func folderFromJSON(in nodeJSON) (*Folder, error) {
	folder := &Folder{Name: in.Name, ContentHash: in.ContentHash}
	if in.Children == nil {
		return folder, nil
	}

	folder.Children = make([]Node, 0, len(*in.Children))
	for _, raw := range *in.Children {
		child, err := UnmarshalNode(raw)
		if err != nil {
			return nil, fmt.Errorf("error decoding child of folder %q: %w", in.Name, err)
		}
		folder.Children = append(folder.Children, child)
	}

	return folder, nil
}
