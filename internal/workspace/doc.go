// Package workspace locates the program root, the directory that holds
// static/data/doctors.json and static/Images, and resolves configured paths
// against it.
package workspace
