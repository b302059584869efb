// Package project loads the dbkeeper project configuration.
//
// A project is marked by a .db file. Commands look it up in the working
// directory first and then in every parent directory, so they work from
// anywhere inside the project tree.
//
// # Project File
//
// The .db file uses the flat key=value format of the config package:
//
//	name=shop
//
//	database.dialect=mysql
//	database.create=db/create.sql
//	database.populate=db/populate
//	database.post-fetch=db/post-fetch
//	database.post-clear=db/post-clear.sql
//
// Paths are relative to the directory holding the .db file. The create script
// must be a file, the populate root a directory, and hooks either a file or a
// directory of SQL files.
//
// # Project Structure
//
// Initialize creates the following layout without touching existing files:
//
//	project-root/
//	├── .db                     # Project configuration
//	└── db/
//	    ├── create.sql          # Creates every table
//	    └── populate/
//	        └── default/        # Seed files of the "default" data set
//
// # Usage Example
//
//	p, err := project.Load(".")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	dir, _ := p.PopulateDir("default")
//	fmt.Println(p.Config().Name, dir)
package project
