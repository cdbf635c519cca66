// Package archivefs presents an HID tree as a read-only FUSE filesystem.
//
// Directories map to directories, files to files, and every container
// the archive.Reader recognizes appears as a directory holding its
// members, so nested archives can be browsed with ordinary tools:
//
//	$ dhid mount /data/bundle.zip /mnt/bundle
//	$ cat /mnt/bundle/2024/readings.tgz/station-7.csv
//
// Inode numbers are assigned per HID on first sight and stay stable for
// the lifetime of the mount.
package archivefs
