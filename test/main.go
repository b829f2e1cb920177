package main

import (
	"bytes"
	"fmt"
	"log"
	"math/rand"

	"github.com/tallendev/test-stuff/constant"
	"github.com/tallendev/test-stuff/elevator"
	_ "github.com/tallendev/test-stuff/elevator/greedy"
	"github.com/tallendev/test-stuff/queue"
)

func main() {
	cfg := queue.DefaultConfig()
	cfg.Path = "test.dev"
	q, err := queue.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer q.Close()

	{ // a burst of scattered writes, reordered by the elevator
		var rqs []*elevator.Request

		for _, i := range rand.Perm(1000) {
			buf := bytes.Repeat([]byte{byte(i)}, 8*constant.SectorSize)
			rq := elevator.NewRequest(elevator.Write, int64(i)*8, buf)
			if err := q.Submit(rq); err != nil {
				log.Fatal(err)
			}
			rqs = append(rqs, rq)
		}
		for _, rq := range rqs {
			if err := rq.Wait(); err != nil {
				log.Fatal(err)
			}
		}
	}
	if err := q.Flush(); err != nil {
		log.Fatal(err)
	}
	{
		buf := make([]byte, 8*constant.SectorSize)
		for i := 0; i < 1000; i++ {
			if err := q.ReadAt(int64(i)*8, buf); err != nil {
				log.Fatal(err)
			}
			if !bytes.Equal(buf, bytes.Repeat([]byte{byte(i)}, len(buf))) {
				log.Fatal(fmt.Errorf("sector %v holds the wrong data", i*8))
			}
		}
	}
	{ // adjacent writes coalesce on the way down
		var rqs []*elevator.Request

		for i := 0; i < 64; i++ {
			buf := bytes.Repeat([]byte{byte(i)}, constant.SectorSize)
			rq := elevator.NewRequest(elevator.Write, 9000+int64(i), buf)
			if err := q.Submit(rq); err != nil {
				log.Fatal(err)
			}
			rqs = append(rqs, rq)
		}
		for _, rq := range rqs {
			if err := rq.Wait(); err != nil {
				log.Fatal(err)
			}
		}
		buf := make([]byte, 64*constant.SectorSize)
		if err := q.ReadAt(9000, buf); err != nil {
			log.Fatal(err)
		}
		for i := 0; i < 64; i++ {
			s := buf[i*constant.SectorSize : (i+1)*constant.SectorSize]
			if !bytes.Equal(s, bytes.Repeat([]byte{byte(i)}, constant.SectorSize)) {
				log.Fatal(fmt.Errorf("sector %v holds the wrong data", 9000+i))
			}
		}
	}
	fmt.Println("ok")
}
