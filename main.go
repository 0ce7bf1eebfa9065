package main

import (
	"flag"
	_ "github.com/simple-als/wdals/client"
	"github.com/simple-als/wdals/option"
	_ "github.com/simple-als/wdals/version"
	log "github.com/sirupsen/logrus"
)

func main() {
	flag.Parse()
	for {
		h, err := option.PopOptionHandler()
		if err != nil {
			flag.Usage()
			log.Fatal("invalid options")
		}
		err = h.Handle()
		if err == nil {
			break
		}
	}
}
