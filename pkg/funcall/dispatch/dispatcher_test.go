package dispatch

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/benoit-pereira-da-silva/funcall/pkg/funcall"
)

var _ = Describe("Dispatcher", func() {
	var (
		registry *Registry
		exec     *Executor
		disp     *Dispatcher
		stopExec context.CancelFunc
	)

	weatherCallable := func() *Callable {
		return &Callable{
			Name: "get_weather",
			Params: []Param{
				{Name: "loc"},
				{
					Name: "unit",
					Enum: map[string]any{
						"celsius":    "c",
						"fahrenheit": "f",
					},
					Default:    "c",
					HasDefault: true,
				},
			},
			Fn: func(args []any) (any, error) {
				return map[string]any{"loc": args[0], "unit": args[1]}, nil
			},
		}
	}

	BeforeEach(func() {
		registry = NewRegistry()
		exec = NewExecutor()
		disp = NewDispatcher(registry, WithExecutor(exec))

		var execCtx context.Context
		execCtx, stopExec = context.WithCancel(context.Background())
		go func() {
			_ = exec.Run(execCtx)
		}()
	})

	AfterEach(func() {
		stopExec()
	})

	Describe("pre-invocation checks", func() {
		It("fails when parameters are declared but no arguments were supplied", func() {
			Expect(registry.Register("get_weather", weatherCallable())).To(Succeed())
			fd, err := NewNamedDescriptor("get_weather", "", `{"type":"object"}`, "")
			Expect(err).NotTo(HaveOccurred())

			_, err = disp.Invoke(context.Background(), fd)
			Expect(err).To(MatchError(funcall.ErrInvalidArgument))
		})

		It("fails with invalid operation for an unqualified unknown name", func() {
			fd, err := NewNamedDescriptor("getweather", "", "", "")
			Expect(err).NotTo(HaveOccurred())

			_, err = disp.Invoke(context.Background(), fd)
			Expect(err).To(MatchError(funcall.ErrInvalidOperation))
		})

		It("fails when the arguments value is not a JSON object", func() {
			Expect(registry.Register("get_weather", weatherCallable())).To(Succeed())
			fd, err := NewNamedDescriptor("get_weather", "", "", `[1,2,3]`)
			Expect(err).NotTo(HaveOccurred())

			_, err = disp.Invoke(context.Background(), fd)
			Expect(err).To(MatchError(funcall.ErrInvalidArgument))
		})
	})

	Describe("argument binding", func() {
		BeforeEach(func() {
			Expect(registry.Register("get_weather", weatherCallable())).To(Succeed())
		})

		It("parses a matching enum member name", func() {
			fd, err := NewNamedDescriptor("get_weather", "", "", `{"loc":"Paris","unit":"fahrenheit"}`)
			Expect(err).NotTo(HaveOccurred())

			out, err := disp.Invoke(context.Background(), fd)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(MatchJSON(`{"result":{"loc":"Paris","unit":"f"}}`))
		})

		It("rejects a non-matching enum member name", func() {
			fd, err := NewNamedDescriptor("get_weather", "", "", `{"loc":"Paris","unit":"kelvin"}`)
			Expect(err).NotTo(HaveOccurred())

			_, err = disp.Invoke(context.Background(), fd)
			Expect(err).To(MatchError(funcall.ErrInvalidArgument))
		})

		It("binds the declared default when the caller omits the argument", func() {
			fd, err := NewNamedDescriptor("get_weather", "", "", `{"loc":"Paris"}`)
			Expect(err).NotTo(HaveOccurred())

			out, err := disp.Invoke(context.Background(), fd)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(MatchJSON(`{"result":{"loc":"Paris","unit":"c"}}`))
		})

		It("fails naming the parameter when a required argument is absent", func() {
			fd, err := NewNamedDescriptor("get_weather", "", "", `{"unit":"celsius"}`)
			Expect(err).NotTo(HaveOccurred())

			_, err = disp.Invoke(context.Background(), fd)
			Expect(err).To(MatchError(funcall.ErrMissingArgument))
			Expect(err.Error()).To(ContainSubstring(`"loc"`))
		})

		It("binds the caller context to a context parameter", func() {
			type key struct{}
			var seen context.Context
			Expect(registry.Register("probe", &Callable{
				Name:   "probe",
				Params: []Param{{Context: true}},
				Fn: func(args []any) (any, error) {
					seen = args[0].(context.Context)
					return nil, nil
				},
			})).To(Succeed())

			ctx := context.WithValue(context.Background(), key{}, "v")
			fd, err := NewNamedDescriptor("probe", "", "", "")
			Expect(err).NotTo(HaveOccurred())

			_, err = disp.Invoke(ctx, fd)
			Expect(err).NotTo(HaveOccurred())
			Expect(seen.Value(key{})).To(Equal("v"))
		})
	})

	Describe("synchronous result shaping", func() {
		It("yields the empty string for a callable returning no value", func() {
			Expect(registry.Register("noop", noopCallable("noop"))).To(Succeed())
			fd, err := NewNamedDescriptor("noop", "", "", "")
			Expect(err).NotTo(HaveOccurred())

			out, err := disp.Invoke(context.Background(), fd)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(""))
		})

		It("wraps a value result in the result envelope", func() {
			Expect(registry.Register("answer", &Callable{
				Name: "answer",
				Fn: func(args []any) (any, error) {
					return 42, nil
				},
			})).To(Succeed())
			fd, err := NewNamedDescriptor("answer", "", "", "")
			Expect(err).NotTo(HaveOccurred())

			out, err := disp.Invoke(context.Background(), fd)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(`{"result":42}`))
		})
	})

	Describe("asynchronous dispatch", func() {
		It("awaits the returned pending computation", func() {
			Expect(registry.Register("fetch", &Callable{
				Name: "fetch",
				Fn: func(args []any) (any, error) {
					return GoFuture(context.Background(), func(ctx context.Context) (any, error) {
						return "ready", nil
					}), nil
				},
			})).To(Succeed())
			fd, err := NewNamedDescriptor("fetch", "", "", "")
			Expect(err).NotTo(HaveOccurred())

			out, err := disp.InvokeAsync(context.Background(), fd)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(`{"result":"ready"}`))
		})

		It("yields the empty string for a void pending computation", func() {
			Expect(registry.Register("touch", &Callable{
				Name: "touch",
				Fn: func(args []any) (any, error) {
					return CompletedFuture(nil), nil
				},
			})).To(Succeed())
			fd, err := NewNamedDescriptor("touch", "", "", "")
			Expect(err).NotTo(HaveOccurred())

			out, err := disp.InvokeAsync(context.Background(), fd)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(""))
		})

		It("fails with invalid operation when the callable does not return a pending computation", func() {
			Expect(registry.Register("answer", &Callable{
				Name: "answer",
				Fn: func(args []any) (any, error) {
					return 42, nil
				},
			})).To(Succeed())
			fd, err := NewNamedDescriptor("answer", "", "", "")
			Expect(err).NotTo(HaveOccurred())

			_, err = disp.InvokeAsync(context.Background(), fd)
			Expect(err).To(MatchError(funcall.ErrInvalidOperation))
		})

		It("propagates cancellation during the await without failing the computation", func() {
			stalled := NewPromise()
			Expect(registry.Register("stall", &Callable{
				Name: "stall",
				Fn: func(args []any) (any, error) {
					return stalled, nil
				},
			})).To(Succeed())
			fd, err := NewNamedDescriptor("stall", "", "", "")
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			_, err = disp.InvokeAsync(ctx, fd)
			Expect(err).To(MatchError(context.DeadlineExceeded))

			// The host-side computation is unaffected and may still complete.
			stalled.Complete("late")
			v, err := stalled.Await(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("late"))
		})

		It("fails when no executor is configured", func() {
			bare := NewDispatcher(registry)
			fd, err := NewNamedDescriptor("noop", "", "", "")
			Expect(err).NotTo(HaveOccurred())

			_, err = bare.InvokeAsync(context.Background(), fd)
			Expect(err).To(MatchError(funcall.ErrInvalidOperation))
		})
	})

	Describe("schema validation superset", func() {
		It("rejects arguments failing the declared schema when enabled", func() {
			validating := NewDispatcher(registry, WithSchemaValidation())
			Expect(registry.Register("get_weather", weatherCallable())).To(Succeed())

			fd, err := NewNamedDescriptor("get_weather", "",
				`{"type":"object","properties":{"loc":{"type":"string"}},"required":["loc"]}`,
				`{"loc":12}`)
			Expect(err).NotTo(HaveOccurred())

			_, err = validating.Invoke(context.Background(), fd)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("rejected by schema"))
		})

		It("accepts a valid numeric argument against a number schema", func() {
			validating := NewDispatcher(registry, WithSchemaValidation())
			Expect(registry.Register("set_temp", &Callable{
				Name:   "set_temp",
				Params: []Param{{Name: "n"}},
				Fn: func(args []any) (any, error) {
					return args[0], nil
				},
			})).To(Succeed())

			fd, err := NewNamedDescriptor("set_temp", "",
				`{"type":"object","properties":{"n":{"type":"number"}},"required":["n"]}`,
				`{"n":42}`)
			Expect(err).NotTo(HaveOccurred())

			out, err := validating.Invoke(context.Background(), fd)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(`{"result":42}`))
		})

		It("stays permissive by default", func() {
			Expect(registry.Register("echo", &Callable{
				Name:   "echo",
				Params: []Param{{Name: "loc"}},
				Fn: func(args []any) (any, error) {
					return args[0], nil
				},
			})).To(Succeed())

			fd, err := NewNamedDescriptor("echo", "",
				`{"type":"object","properties":{"loc":{"type":"string"}},"required":["loc"]}`,
				`{"loc":12}`)
			Expect(err).NotTo(HaveOccurred())

			out, err := disp.Invoke(context.Background(), fd)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(`{"result":12}`))
		})
	})
})
