// Package files provides file system operations rooted at one directory.
//
// Manager creates the directory on demand, checks for files and lists the
// workbooks it holds:
//
//	manager := files.NewManager("output", logger)
//	if err := manager.EnsureDirectory(); err != nil {
//	    return err
//	}
//	names, err := manager.ListFiles(".xlsx")
//
// Relative names passed to Path and FileExists resolve against the base
// directory.
package files
