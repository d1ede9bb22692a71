package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cast"

	"vetcare/internal/domain"
	"vetcare/internal/port"
	"vetcare/internal/resource"
)

type resourceRepo struct {
	db *sqlx.DB
}

// NewResourceRepo creates the PostgreSQL-backed generic collection store.
func NewResourceRepo(db *sqlx.DB) port.ResourceRepository {
	return &resourceRepo{db: db}
}

var q = resource.QuoteIdent

// whereClause renders the filter as a WHERE clause with ? placeholders.
func whereClause(spec *resource.Spec, f resource.Filter) (string, []any) {
	var clauses []string
	var args []any
	if f.TenantID != "" {
		clauses = append(clauses, q(spec.TenantColumn)+" = ?")
		args = append(args, f.TenantID)
	}
	if f.BranchID != "" && spec.BranchScoped {
		clauses = append(clauses, q("branch_id")+" = ?")
		args = append(args, f.BranchID)
	}
	for _, c := range f.Where {
		clauses = append(clauses, "("+c.Expr+")")
		args = append(args, c.Args...)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *resourceRepo) List(ctx context.Context, spec *resource.Spec, f resource.Filter) ([]resource.Record, error) {
	where, args := whereClause(spec, f)
	query := fmt.Sprintf("SELECT * FROM %s %s ORDER BY %s", q(spec.Table), where, spec.OrderBy)

	out, err := r.selectRecords(ctx, r.db, spec, query, args)
	if err != nil {
		return nil, fmt.Errorf("resourceRepo.List(%s): %w", spec.Name, err)
	}
	if err := r.loadChildren(ctx, r.db, spec, out, true); err != nil {
		return nil, fmt.Errorf("resourceRepo.List(%s) children: %w", spec.Name, err)
	}
	return out, nil
}

func (r *resourceRepo) Get(ctx context.Context, spec *resource.Spec, f resource.Filter, id string) (resource.Record, error) {
	where, args := whereClause(spec, f.With(resource.Eq("id", id)))
	query := fmt.Sprintf("SELECT * FROM %s %s", q(spec.Table), where)

	rows, err := r.selectRecords(ctx, r.db, spec, query, args)
	if err != nil {
		return nil, fmt.Errorf("resourceRepo.Get(%s): %w", spec.Name, err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	if err := r.loadChildren(ctx, r.db, spec, rows, false); err != nil {
		return nil, fmt.Errorf("resourceRepo.Get(%s) children: %w", spec.Name, err)
	}
	return rows[0], nil
}

func (r *resourceRepo) Create(ctx context.Context, spec *resource.Spec, rec resource.Record, nested map[string][]resource.Record) (resource.Record, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("resourceRepo.Create(%s) begin: %w", spec.Name, err)
	}
	defer func() { _ = tx.Rollback() }()

	created, err := insertRecord(ctx, tx, spec, rec, nil)
	if err != nil {
		return nil, fmt.Errorf("resourceRepo.Create(%s): %w", spec.Name, err)
	}

	parentID := cast.ToString(created["id"])
	for _, child := range spec.Children {
		if !child.Nested {
			continue
		}
		rows := nested[child.Name]
		inserted := make([]resource.Record, 0, len(rows))
		for _, row := range rows {
			if cast.ToString(row["id"]) == "" {
				row["id"] = uuid.New().String()
			}
			c, err := insertRecord(ctx, tx, child.Spec, row, map[string]any{child.ForeignKey: parentID})
			if err != nil {
				return nil, fmt.Errorf("resourceRepo.Create(%s.%s): %w", spec.Name, child.Name, err)
			}
			inserted = append(inserted, c)
		}
		created[child.Name] = inserted
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("resourceRepo.Create(%s) commit: %w", spec.Name, err)
	}
	return created, nil
}

func (r *resourceRepo) Update(ctx context.Context, spec *resource.Spec, f resource.Filter, id string, changes resource.Record) (resource.Record, error) {
	var sets []string
	var args []any
	for _, field := range spec.Fields {
		v, ok := changes[field.Name]
		if !ok {
			continue
		}
		enc, err := resource.Encode(field, v)
		if err != nil {
			return nil, err
		}
		sets = append(sets, q(field.Column)+" = ?")
		args = append(args, enc)
	}
	if len(sets) == 0 {
		return r.Get(ctx, spec, f, id)
	}
	if spec.HasField("updatedAt") {
		sets = append(sets, q("updated_at")+" = NOW()")
	}

	where, whereArgs := whereClause(spec, f.With(resource.Eq("id", id)))
	query := fmt.Sprintf("UPDATE %s SET %s %s RETURNING *", q(spec.Table), strings.Join(sets, ", "), where)
	args = append(args, whereArgs...)

	row := make(map[string]any)
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).MapScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resourceRepo.Update(%s): %w", spec.Name, classify(err))
	}
	updated := []resource.Record{resource.Decode(spec, row)}
	if err := r.loadChildren(ctx, r.db, spec, updated, false); err != nil {
		return nil, fmt.Errorf("resourceRepo.Update(%s) children: %w", spec.Name, err)
	}
	return updated[0], nil
}

func (r *resourceRepo) Delete(ctx context.Context, spec *resource.Spec, f resource.Filter, id string) error {
	where, args := whereClause(spec, f.With(resource.Eq("id", id)))
	query := fmt.Sprintf("DELETE FROM %s %s", q(spec.Table), where)

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		err = classify(err)
		if errors.Is(err, domain.ErrInvalidReference) {
			return fmt.Errorf("%w: %v", domain.ErrRecordInUse, err)
		}
		return fmt.Errorf("resourceRepo.Delete(%s): %w", spec.Name, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *resourceRepo) selectRecords(ctx context.Context, qx sqlx.QueryerContext, spec *resource.Spec, query string, args []any) ([]resource.Record, error) {
	rows, err := qx.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]resource.Record, 0)
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		out = append(out, resource.Decode(spec, row))
	}
	return out, rows.Err()
}

// loadChildren attaches composed rows to parents with one IN query per
// child collection.
func (r *resourceRepo) loadChildren(ctx context.Context, qx sqlx.QueryerContext, spec *resource.Spec, parents []resource.Record, listOnly bool) error {
	if len(parents) == 0 {
		return nil
	}
	ids := make([]string, 0, len(parents))
	for _, p := range parents {
		ids = append(ids, cast.ToString(p["id"]))
	}

	for _, child := range spec.Children {
		if listOnly && !child.OnList {
			continue
		}
		query, args, err := sqlx.In(
			fmt.Sprintf("SELECT * FROM %s WHERE %s IN (?) ORDER BY %s",
				q(child.Spec.Table), q(child.ForeignKey), child.Spec.OrderBy),
			ids)
		if err != nil {
			return err
		}
		rows, err := qx.QueryxContext(ctx, r.db.Rebind(query), args...)
		if err != nil {
			return err
		}
		grouped := make(map[string][]resource.Record)
		for rows.Next() {
			row := make(map[string]any)
			if err := rows.MapScan(row); err != nil {
				rows.Close()
				return err
			}
			parentID := cast.ToString(row[child.ForeignKey])
			grouped[parentID] = append(grouped[parentID], resource.Decode(child.Spec, row))
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return err
		}

		for _, p := range parents {
			list := grouped[cast.ToString(p["id"])]
			if list == nil {
				list = []resource.Record{}
			}
			p[child.Name] = list
		}
	}
	return nil
}

// insertRecord inserts the declared fields of rec plus extra raw columns
// and returns the stored row.
func insertRecord(ctx context.Context, tx *sqlx.Tx, spec *resource.Spec, rec resource.Record, extra map[string]any) (resource.Record, error) {
	query, args, err := insertStatement(spec, rec, extra)
	if err != nil {
		return nil, err
	}
	row := make(map[string]any)
	if err := tx.QueryRowxContext(ctx, tx.Rebind(query), args...).MapScan(row); err != nil {
		return nil, classify(err)
	}
	return resource.Decode(spec, row), nil
}

// insertStatement renders the INSERT for rec with ? placeholders. extra
// holds column values that override rec, such as a child's foreign key.
func insertStatement(spec *resource.Spec, rec resource.Record, extra map[string]any) (string, []any, error) {
	var cols, marks []string
	var args []any
	for _, field := range spec.Fields {
		if _, isExtra := extra[field.Column]; isExtra {
			continue
		}
		v, ok := rec[field.Name]
		if !ok {
			continue
		}
		enc, err := resource.Encode(field, v)
		if err != nil {
			return "", nil, err
		}
		cols = append(cols, q(field.Column))
		marks = append(marks, "?")
		args = append(args, enc)
	}
	extraCols := make([]string, 0, len(extra))
	for col := range extra {
		extraCols = append(extraCols, col)
	}
	sort.Strings(extraCols)
	for _, col := range extraCols {
		cols = append(cols, q(col))
		marks = append(marks, "?")
		args = append(args, extra[col])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		q(spec.Table), strings.Join(cols, ", "), strings.Join(marks, ", "))
	return query, args, nil
}
