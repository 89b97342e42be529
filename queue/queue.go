// Package queue is a small in-process job queue. Emit enqueues synchronously
// within the calling request; registered handlers run later on a background
// worker goroutine. Delivery is at-least-once from the handlers' point of
// view: a handler error is logged and the job is not re-run here, whole-job
// retry belongs to whoever supervises the process.
package queue

import (
	"log"
	"sync"
	"time"
)

// PostPublished carries a snapshot of a post at the moment it transitioned to
// published. Handlers must work from this snapshot and not re-read the post.
type PostPublished struct {
	PostID       uint
	Title        string
	Slug         string
	Content      string
	CategoryName string // empty when the post has no category
	PublishedAt  *time.Time
}

type Handler func(PostPublished) error

type Queue struct {
	jobs     chan PostPublished
	handlers []Handler
	wg       sync.WaitGroup
}

func New(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 64
	}
	return &Queue{jobs: make(chan PostPublished, buffer)}
}

// Subscribe registers a handler. Must be called before Start.
func (q *Queue) Subscribe(h Handler) {
	q.handlers = append(q.handlers, h)
}

// Emit enqueues an event. Blocks only if the buffer is full.
func (q *Queue) Emit(ev PostPublished) {
	q.jobs <- ev
}

// Start launches the worker goroutine that drains the queue.
func (q *Queue) Start() {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for ev := range q.jobs {
			for _, h := range q.handlers {
				if err := h(ev); err != nil {
					log.Printf("queue: handler failed for post %d (%s): %v", ev.PostID, ev.Title, err)
				}
			}
		}
	}()
}

// Close stops accepting events and waits for the worker to drain the buffer.
func (q *Queue) Close() {
	close(q.jobs)
	q.wg.Wait()
}
