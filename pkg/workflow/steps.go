package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/playtest-app/phaserun/pkg/browser"
	"github.com/playtest-app/phaserun/pkg/scenario"
)

// registered step names
const (
	StepLogin    = "auth.login"
	StepHealth   = "api.health"
	StepCreate   = "block.create"
	StepLoad     = "block.load"
	StepDownload = "block.download"
	StepDelete   = "block.delete"
	StepVerify   = "block.verify"
)

const (
	loadTab    = "Carga de Bloques"
	contentTab = "Contenido"
	addTab     = "Añadir Preguntas"

	uploadSubTab  = `button:has-text("Subir Fichero"), .sub-tab:has-text("Subir Fichero")`
	fileInput     = `input[type="file"]:not([webkitdirectory])`
	uploadButton  = `button:text-is("Subir")`
	modalUpload   = `.modal button:has-text("Subir"), .popup button:has-text("Subir"), .dialog button:has-text("Subir")`
	reviewButton  = `button:has-text("Cargar"), button:has-text("archivos para revisar")`
	saveAllButton = `button:has-text("Guardar todas las preguntas")`
	confirmButton = `button:has-text("Confirmar"), button:has-text("Sí"), .modal button:has-text("Eliminar")`
)

// NewRegistry returns a registry holding every built-in step.
func NewRegistry() *Registry {
	r := &Registry{steps: map[string]StepFunc{}}
	r.Register(StepHealth, apiHealth)
	r.Register(StepLogin, authLogin)
	r.Register(StepCreate, createBlock)
	r.Register(StepDelete, deleteBlock)
	r.Register(StepDownload, downloadBlock)
	r.Register(StepLoad, loadBlock)
	r.Register(StepVerify, verifyBlock)
	return r
}

// authLogin logs in and checks the actor's panel rendered.
func authLogin(ctx context.Context, env *Env, st scenario.Step) error {
	return env.withSession(ctx, st.Actor, func(sess *browser.Session) error {
		if sel := sess.Actor.PanelSelector; sel != "" {
			if err := env.Driver.WaitVisible(ctx, sel, env.Timeouts.Expect); err != nil {
				return &browser.ElementNotFoundError{Selector: sel, Timeout: env.Timeouts.Expect, Err: err}
			}
		}
		if st.Role != "" && !strings.Contains(strings.ToLower(sess.Role), strings.ToLower(st.Role)) {
			return fmt.Errorf("session shows role %q, want %q", sess.Role, st.Role)
		}
		env.Log.Print("%s logged in as %s at %s", sess.Actor.Nickname, lo.Ternary(sess.Role != "", sess.Role, sess.Actor.Role), env.Driver.URL())
		return nil
	})
}

// apiHealth checks the backend health endpoint through the page's request context.
func apiHealth(ctx context.Context, env *Env, _ scenario.Step) error {
	if env.BackendURL == "" {
		return errors.New("backend url is not configured")
	}
	url := strings.TrimSuffix(env.BackendURL, "/") + "/health"
	code, err := env.Driver.Get(ctx, url, env.Timeouts.Navigation)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if code != http.StatusOK {
		return fmt.Errorf("health check %s: status %d, want %d", url, code, http.StatusOK)
	}
	env.Log.Print("backend healthy at %s", url)
	return nil
}

// createBlock uploads question files as a creator and waits for the block to be listed.
func createBlock(ctx context.Context, env *Env, st scenario.Step) error {
	if err := requireBlock(st); err != nil {
		return err
	}
	if len(st.Files) == 0 {
		return fmt.Errorf("step %s needs at least one file", StepCreate)
	}
	return env.withSession(ctx, st.Actor, func(*browser.Session) error {
		if err := env.click(ctx, browser.TabSelector(addTab)); err != nil {
			return err
		}
		if err := env.click(ctx, uploadSubTab); err != nil {
			return err
		}
		if err := env.Driver.SetInputFiles(ctx, fileInput, st.Files, env.Timeouts.Action); err != nil {
			return &browser.ElementNotFoundError{Selector: fileInput, Timeout: env.Timeouts.Action, Err: err}
		}
		if err := env.click(ctx, uploadButton); err != nil {
			return err
		}
		// some builds confirm the upload in a modal
		if n, err := env.Driver.Count(ctx, modalUpload); err == nil && n > 0 {
			if err := env.click(ctx, modalUpload); err != nil {
				return err
			}
		}
		if err := env.click(ctx, reviewButton); err != nil {
			return err
		}
		if err := env.click(ctx, saveAllButton); err != nil {
			return err
		}
		env.Log.Print("uploaded %d file(s) for block %q", len(st.Files), st.Block)
		return env.awaitListed(ctx, "Creador", st.Block, true)
	})
}

// loadBlock loads an available block into the player's panel.
func loadBlock(ctx context.Context, env *Env, st scenario.Step) error {
	if err := requireBlock(st); err != nil {
		return err
	}
	return env.withSession(ctx, st.Actor, func(*browser.Session) error {
		if err := env.click(ctx, browser.TabSelector(loadTab)); err != nil {
			return err
		}
		cards := blockCards(st.Block, ".block-card", ".available-block", ".game-block")
		if err := env.waitVisible(ctx, strings.Join(cards, ", ")); err != nil {
			return err
		}
		load := within(cards, `button:has-text("Cargar")`, `button:has-text("Seleccionar")`, `button:has-text("Jugar")`)
		if err := env.click(ctx, load); err != nil {
			return err
		}
		loaded := strings.Join(blockCards(st.Block, ".loaded-block"), ", ") + ", " +
			within(blockCards(st.Block, ".block-card"), `:text-matches("cargado", "i")`)
		if err := env.waitVisible(ctx, loaded); err != nil {
			return err
		}
		env.Log.Print("%s loaded block %q", st.Actor, st.Block)
		return nil
	})
}

// downloadBlock saves the block export into the artifacts directory.
func downloadBlock(ctx context.Context, env *Env, st scenario.Step) error {
	if err := requireBlock(st); err != nil {
		return err
	}
	return env.withSession(ctx, st.Actor, func(*browser.Session) error {
		if err := env.click(ctx, browser.TabSelector(loadTab)); err != nil {
			return err
		}
		cards := blockCards(st.Block, ".block-card", ".loaded-block")
		if err := env.waitVisible(ctx, strings.Join(cards, ", ")); err != nil {
			return err
		}
		control := within(cards, `button:has-text("Descargar")`, `a:has-text("Descargar")`, ".download-btn")
		dir := filepath.Join(env.ArtifactsDir, "downloads", env.Phase)
		path, err := env.Driver.Download(ctx, control, dir, env.Timeouts.Action)
		if err != nil {
			return &browser.ElementNotFoundError{Selector: control, Timeout: env.Timeouts.Action, Err: err}
		}
		env.Log.Print("%s downloaded block %q to %s", st.Actor, st.Block, path)
		return nil
	})
}

// deleteBlock removes a created block and waits until it is no longer listed.
func deleteBlock(ctx context.Context, env *Env, st scenario.Step) error {
	if err := requireBlock(st); err != nil {
		return err
	}
	return env.withSession(ctx, st.Actor, func(*browser.Session) error {
		if err := env.click(ctx, browser.TabSelector(contentTab)); err != nil {
			return err
		}
		cards := blockCards(st.Block, ".bc-block-card", ".created-block", ".loaded-block", ".block-card")
		if err := env.waitVisible(ctx, strings.Join(cards, ", ")); err != nil {
			return err
		}
		if err := env.click(ctx, within(cards, `button:has-text("Eliminar")`, ".delete-btn", ".remove-btn")); err != nil {
			return err
		}
		// native confirm() is accepted by the page, an in-page dialog needs a click
		if n, err := env.Driver.Count(ctx, confirmButton); err == nil && n > 0 {
			if err := env.click(ctx, confirmButton); err != nil {
				return err
			}
		}
		env.Log.Print("%s deleted block %q", st.Actor, st.Block)
		return env.awaitListed(ctx, "Creador", st.Block, false)
	})
}

// verifyBlock asserts the block is listed, or with absent set that it is not, for a role.
func verifyBlock(ctx context.Context, env *Env, st scenario.Step) error {
	if err := requireBlock(st); err != nil {
		return err
	}
	role := lo.Ternary(st.Role != "", st.Role, "Creador")
	return env.withSession(ctx, st.Actor, func(*browser.Session) error {
		return env.awaitListed(ctx, role, st.Block, !st.Absent)
	})
}

func requireBlock(st scenario.Step) error {
	if strings.TrimSpace(st.Block) == "" {
		return fmt.Errorf("step %s needs a block title", st.Use)
	}
	return nil
}

// blockCards returns one selector per card class, each matching a card holding title.
func blockCards(title string, classes ...string) []string {
	return lo.Map(classes, func(c string, _ int) string {
		return fmt.Sprintf("%s:has-text(%q)", c, title)
	})
}

// within joins every scope/target combination into one selector list.
func within(scopes []string, targets ...string) string {
	out := make([]string, 0, len(scopes)*len(targets))
	for _, s := range scopes {
		for _, t := range targets {
			out = append(out, s+" "+t)
		}
	}
	return strings.Join(out, ", ")
}
