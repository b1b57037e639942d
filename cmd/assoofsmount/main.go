// Command assoofsmount mounts an assoofs image on a host directory via
// FUSE. Requires the fuse build tag (the assoofs package only compiles
// the FUSE adapter under that tag, since it pulls in
// github.com/hanwen/go-fuse/v2).
//
//go:build fuse

package main

import (
	"flag"
	"log"
	"os"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"golang.org/x/sys/unix"

	"github.com/assoofs-project/assoofs"
	"github.com/assoofs-project/assoofs/internal/blockio"
)

func main() {
	debug := flag.Bool("debug", false, "log every FUSE request")
	readonly := flag.Bool("ro", false, "mount read-only")
	flag.Parse()

	if flag.NArg() != 2 {
		log.Fatalf("usage: assoofsmount [-debug] [-ro] <image-path> <mountpoint>")
	}
	imagePath, mountpoint := flag.Arg(0), flag.Arg(1)

	openFlags := unix.O_RDWR
	if *readonly {
		openFlags = unix.O_RDONLY
	}
	f, err := os.OpenFile(imagePath, openFlags, 0)
	if err != nil {
		log.Fatalf("assoofsmount: open image: %s", err)
	}
	defer f.Close()

	dev := blockio.New(f)
	sb, err := assoofs.Mount(dev)
	if err != nil {
		log.Fatalf("assoofsmount: mount: %s", err)
	}

	root := assoofs.NewFuseRoot(sb)
	server, err := fs.Mount(mountpoint, root, &fs.Options{
		MountOptions: fuse.MountOptions{
			Debug:      *debug,
			FsName:     "assoofs",
			Name:       "assoofs",
			AllowOther: false,
		},
	})
	if err != nil {
		log.Fatalf("assoofsmount: mount %s: %s", mountpoint, err)
	}

	log.Printf("assoofsmount: serving %s at %s", imagePath, mountpoint)
	server.Wait()
}
