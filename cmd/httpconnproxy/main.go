package main

import (
	"flag"
	"log"
	"time"

	json "github.com/json-iterator/go"

	"github.com/coreproxy/httpconn/proxy"
	"github.com/coreproxy/httpconn/transport"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	flag.Parse()

	banner, err := json.Marshal(struct {
		Service string `json:"service"`
		Addr    string `json:"addr"`
	}{Service: "httpconnproxy", Addr: *addr})
	if err != nil {
		log.Fatal(err)
	}

	log.Println(string(banner))

	l, err := transport.NewListener(*addr, time.Second)
	if err != nil {
		log.Fatal(err)
	}

	p := proxy.New()
	log.Fatal(l.Serve(p.Handle))
}
