package export

import (
	"context"
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
)

//go:embed schema.sql
var schemaSQL string

const insertCollege = `INSERT INTO colleges (
	id, name, city, state, country, genders, campus_size, enrollment, faculty,
	established, rating, university, courses, facilities, college_type,
	average_fee, rank, region, district, address, institute_type, category,
	website, nba, naac, ranking_status, women_institute, courses_offered, data_sources
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertCourse = `INSERT INTO courses (
	college_id, college_name, course, city, state, university, average_fee,
	rating, rank, institute_type, nba, naac, website, source_name, match_score
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// WriteSQLite writes a snapshot database with the colleges and courses
// tables. An existing file at path is replaced.
func WriteSQLite(ctx context.Context, path string, records []*colleges.College, entries []colleges.CourseEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.WrapIO("remove", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return errors.WrapResource("create", "sqlite schema", path, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapIO("write", path, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertColleges(ctx, tx, records); err != nil {
		return errors.WrapResource("write", "colleges", path, err)
	}
	if err := insertCourses(ctx, tx, entries); err != nil {
		return errors.WrapResource("write", "courses", path, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func insertColleges(ctx context.Context, tx *sql.Tx, records []*colleges.College) error {
	stmt, err := tx.PrepareContext(ctx, insertCollege)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range records {
		_, err := stmt.ExecContext(ctx,
			c.ID, c.Name, c.City, c.State, c.Country, c.Genders, c.CampusSize,
			c.Enrollment, c.Faculty, c.Established, c.Rating, c.University,
			c.Courses, c.Facilities, c.CollegeType, nullFee(c.Fee), nullRank(c.Rank),
			c.Region, c.District, c.Address, c.InstituteType, c.Category,
			c.Website, c.NBA, c.NAAC, c.RankingStatus, c.WomenInstitute,
			c.CoursesOffered, c.Sources.String(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func insertCourses(ctx context.Context, tx *sql.Tx, entries []colleges.CourseEntry) error {
	stmt, err := tx.PrepareContext(ctx, insertCourse)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.CollegeID, e.CollegeName, e.Course, e.City, e.State, e.University,
			nullFee(e.Fee), e.Rating, nullRank(e.Rank), e.InstituteType,
			e.NBA, e.NAAC, e.Website, e.SourceName, e.Score,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// nullFee maps the absent fee to NULL.
func nullFee(f colleges.Fee) sql.NullFloat64 {
	v, ok := f.Value()
	return sql.NullFloat64{Float64: v, Valid: ok}
}

// nullRank maps an unranked college to NULL.
func nullRank(rank *int) sql.NullInt64 {
	if rank == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*rank), Valid: true}
}
