// Package platform wraps the filesystem operations whose behavior differs by
// OS: linking a directory into place and copying a tree.
package platform
