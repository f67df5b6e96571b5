package driver

import (
	"context"

	"conceptc/complete"
	"conceptc/database"
	"conceptc/lower"
	"conceptc/registry"
	"conceptc/resolve"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("conceptc.driver")

// Program is one compilation unit as bound upstream: declarations plus the
// method bodies whose capability-qualified calls need resolving and
// lowering.
type Program struct {
	Name      string
	Concepts  []*registry.ConceptNode
	Instances []*registry.InstanceNode
	TypeDefs  []*registry.TypeDefNode
	Bodies    []*lower.Body
}

// Unit holds the per-compilation-unit state. Nothing in it outlives the
// unit; resolved witnesses and dictionary locals are never persisted.
type Unit struct {
	Db       *database.Db
	Registry *registry.Registry
	Engine   *complete.Engine
}

func MakeUnit() *Unit {
	db := database.NewDb()
	reg := registry.New()

	return &Unit{
		Db:       db,
		Registry: reg,
		Engine:   complete.NewEngine(db, reg),
	}
}

// Check runs the unit's pipeline over a program: populate the registry,
// complete every instance, resolve every capability-qualified call, and
// lower each body. Every condition it finds is recoverable: checking
// continues across the remaining declarations and diagnostics aggregate as
// facts.
func Check(ctx context.Context, unit *Unit, program *Program) error {
	register(unit, program)

	if err := completeInstances(ctx, unit, program); err != nil {
		return errors.Wrap(err, "completing instances")
	}

	if err := resolveBodies(ctx, unit, program); err != nil {
		return errors.Wrap(err, "resolving witnesses")
	}

	lowerBodies(unit, program)

	return nil
}

func register(unit *Unit, program *Program) {
	log.Debugf("registering %d concept(s), %d instance(s) in %s", len(program.Concepts), len(program.Instances), program.Name)

	for _, concept := range program.Concepts {
		unit.Db.Register(concept)
		for _, member := range concept.Members {
			unit.Db.Register(member)
		}
		if concept.DefaultStruct != nil {
			unit.Db.Register(concept.DefaultStruct)
		}

		unit.Registry.RegisterConcept(concept)
	}

	for _, typeDef := range program.TypeDefs {
		unit.Db.Register(typeDef)
		unit.Registry.RegisterTypeDef(typeDef)
	}

	for _, instance := range program.Instances {
		unit.Db.Register(instance)
		unit.Registry.RegisterInstance(instance)
	}

	for _, body := range program.Bodies {
		unit.Db.Register(body)

		for _, statement := range body.Statements {
			lower.Walk(statement, func(expr lower.Expr) {
				if call, ok := expr.(*lower.CallExpr); ok {
					database.SetNameFact(call, lower.DisplayExpr(call))
					unit.Db.Register(call)
				}
			})
		}
	}
}

// completeInstances computes every instance's completion verdict, one worker
// per instance. Instances rejected at registration still get a verdict; an
// incomplete instance never blocks the others.
func completeInstances(ctx context.Context, unit *Unit, program *Program) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, instance := range program.Instances {
		group.Go(func() error {
			_, err := unit.Engine.Completion(ctx, instance)
			return err
		})
	}

	return group.Wait()
}

func resolveBodies(ctx context.Context, unit *Unit, program *Program) error {
	for _, body := range program.Bodies {
		scope := resolve.NewScope()
		for _, required := range body.Requires {
			scope = scope.With(required)
		}

		for _, statement := range body.Statements {
			var resolveErr error
			lower.Walk(statement, func(expr lower.Expr) {
				call, ok := expr.(*lower.CallExpr)
				if !ok || resolveErr != nil {
					return
				}

				ref, ok := call.Receiver.(*lower.ConceptRefExpr)
				if !ok {
					return
				}

				witness, failure, err := resolve.Resolve(ctx, unit.Registry, scope, ref.Concept, ref.Arguments)
				if err != nil {
					resolveErr = err
					return
				}

				if failure != nil {
					switch failure.Kind {
					case resolve.NoInstance:
						database.SetFact(call, resolve.NoInstanceFact{
							Concept:   failure.Concept,
							Arguments: failure.Arguments,
						})
					case resolve.AmbiguousInstance:
						database.SetFact(call, resolve.AmbiguousInstanceFact{
							Concept:    failure.Concept,
							Arguments:  failure.Arguments,
							Candidates: failure.Candidates,
						})
					}

					database.SetFact(call, resolve.ErroredFact{})
					return
				}

				call.Receiver = &lower.WitnessExpr{
					Witness: witness,
					Facts:   database.CloneFacts(ref.Facts),
				}
				database.SetFact(call, resolve.ResolvedFact{Witness: witness})
			})

			if resolveErr != nil {
				return resolveErr
			}
		}
	}

	return nil
}

func lowerBodies(unit *Unit, program *Program) {
	for i, body := range program.Bodies {
		lowered := lower.LowerBody(body)
		program.Bodies[i] = lowered

		// The lowered body shares the original's facts, so the fact lands on
		// the registered node.
		database.SetFact(lowered, lower.LoweredFact{Body: lowered})
	}
}
